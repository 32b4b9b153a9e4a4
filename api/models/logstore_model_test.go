package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/frvega/conversor-go/types"
)

func TestLogStorePersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.yaml")

	store := NewLogStore(path)
	store.Append(types.LogRecord{User: "admin", Date: "2025-01-02 10:00:00", OK: 2})
	store.Append(types.LogRecord{User: "user", Date: "2025-01-02 11:00:00", OK: 0, Errors: 1, Reason: "extract failed"})

	reopened := NewLogStore(path)
	records := reopened.List()
	require.Len(t, records, 2)
	require.Equal(t, "user", records[0].User)
	require.Equal(t, "extract failed", records[0].Reason)
	require.Equal(t, "admin", records[1].User)
}

func TestLogStoreMemoryOnly(t *testing.T) {
	store := NewLogStore("")
	store.Append(types.LogRecord{User: "admin", OK: 1})
	require.Len(t, store.List(), 1)

	fresh := NewLogStore("")
	require.Empty(t, fresh.List())
}

func TestLogStoreListNewestFirst(t *testing.T) {
	store := NewLogStore("")
	store.Append(types.LogRecord{User: "first"})
	store.Append(types.LogRecord{User: "second"})
	store.Append(types.LogRecord{User: "third"})

	records := store.List()
	require.Equal(t, []string{"third", "second", "first"}, []string{records[0].User, records[1].User, records[2].User})
}
