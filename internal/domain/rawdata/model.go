package rawdata

import "time"

// Payload is one provider document as it was acquired, kept for replay.
type Payload struct {
	RunID       string
	Source      string
	EntityType  string
	EntityKey   string
	Location    string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}

const (
	EntityMetadata = "metadata"
	EntityEvents   = "events"
)
