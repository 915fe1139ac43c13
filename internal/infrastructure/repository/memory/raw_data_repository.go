package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchfeed/internal/domain/rawdata"
)

type RawDataRepository struct {
	mu    sync.RWMutex
	items map[string]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{items: make(map[string]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		key := rawDataKey(item.Source, item.EntityType, item.EntityKey)
		if existing, ok := r.items[key]; ok && existing.PayloadHash == item.PayloadHash {
			continue
		}
		r.items[key] = item
	}
	return nil
}

func (r *RawDataRepository) Get(source, entityType, entityKey string) (rawdata.Payload, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rawDataKey(source, entityType, entityKey)]
	return item, ok
}

func rawDataKey(source, entityType, entityKey string) string {
	return source + "::" + entityType + "::" + entityKey
}
