package cache

import "encoding/json"

// ModerationEventsChannel is the pub/sub channel shared with the platform's
// notification and feed services.
const ModerationEventsChannel = "fuega:moderation:events"

type RedisMessage struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}
