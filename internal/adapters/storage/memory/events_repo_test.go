package memory

import (
	"testing"

	"baby-tracker/internal/adapters/storage/storetest"
	"baby-tracker/internal/domain/events"
)

func TestEventRepoContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, schema events.Schema) events.Store {
		return NewEventRepo(schema)
	})
}
