package event

import "reflect"

type Event interface {
	Type() string
}

var (
	ContentModeratedEventType = "ContentModeratedEvent"
	DecisionLoggedEventType   = "DecisionLoggedEvent"
)

var Registry = map[string]reflect.Type{
	ContentModeratedEventType: reflect.TypeOf(ContentModeratedEvent{}),
	DecisionLoggedEventType:   reflect.TypeOf(DecisionLoggedEvent{}),
}
