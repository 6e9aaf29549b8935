package cmd

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/pders01/chatlog/internal/testutil"
)

// setupStore points the commands at a temporary logs root
func setupStore(t *testing.T) *testutil.TempStore {
	t.Helper()

	store := testutil.NewTempStore(t)
	t.Cleanup(store.Cleanup)

	viper.Set("logs.dir", store.Root)
	viper.Set("lock.enabled", true)

	return store
}
