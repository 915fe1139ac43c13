package rawdata

import "context"

// Repository keeps the latest document per (Source, EntityType, EntityKey).
// A payload whose hash matches the stored one leaves the row untouched.
type Repository interface {
	UpsertMany(ctx context.Context, items []Payload) error
}
