package telemetry

import (
	"context"

	"github.com/fuega-ai/fuega/pkg/domain/moderation"
)

//go:generate mockery --name=Exporter --dir=. --output=./mocks --filename=exporter_mock.go --case=underscore --with-expecter

// Exporter ships audit records to an external sink (the public moderation
// log firehose). Export is best-effort from the caller's perspective.
type Exporter interface {
	Name() string
	ValidateConfig(settings map[string]interface{}) error
	WithSettings(settings map[string]interface{}) (Exporter, error)
	Handle(ctx context.Context, log *moderation.Log) error
	Close()
}
