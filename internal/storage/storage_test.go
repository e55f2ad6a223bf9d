package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/cory-johannsen/sugoroku/internal/storage"
	"github.com/cory-johannsen/sugoroku/internal/storage/sqlite"
)

func TestOpenTrophyStore_Backends(t *testing.T) {
	dir := t.TempDir()
	cases := []struct {
		tc   config.TrophyConfig
		want any
	}{
		{config.TrophyConfig{Backend: "memory"}, &trophy.MemoryStore{}},
		{config.TrophyConfig{Backend: "file", FilePath: filepath.Join(dir, "t.yaml")}, &trophy.FileStore{}},
		{config.TrophyConfig{Backend: "sqlite", SQLitePath: filepath.Join(dir, "t.db"), Profile: "default"}, &sqlite.Store{}},
	}
	for _, c := range cases {
		t.Run(c.tc.Backend, func(t *testing.T) {
			store, closeFn, err := storage.OpenTrophyStore(context.Background(), config.Config{Trophies: c.tc}, zap.NewNop())
			require.NoError(t, err)
			defer closeFn()
			assert.IsType(t, c.want, store)

			fresh, err := store.Earn(context.Background(), "腰が重い")
			require.NoError(t, err)
			assert.True(t, fresh)
		})
	}
}

func TestOpenTrophyStore_UnknownBackend(t *testing.T) {
	_, _, err := storage.OpenTrophyStore(context.Background(), config.Config{Trophies: config.TrophyConfig{Backend: "redis"}}, zap.NewNop())
	assert.Error(t, err)
}
