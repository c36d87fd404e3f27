package testsupport

import (
	"testing"

	"v4lnode/internal/config"
	"v4lnode/internal/inventory"
)

// MustOpenInventory opens an inventory.Store for tests and registers cleanup.
func MustOpenInventory(t testing.TB, cfg *config.Config) *inventory.Store {
	t.Helper()

	store, err := inventory.Open(cfg)
	if err != nil {
		t.Fatalf("inventory.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
