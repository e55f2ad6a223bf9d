// Package storage selects the trophy store configured for a process.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/cory-johannsen/sugoroku/internal/storage/postgres"
	"github.com/cory-johannsen/sugoroku/internal/storage/sqlite"
)

// OpenTrophyStore builds the store named by cfg.Trophies.Backend.
//
// Precondition: cfg passed config.Validate.
// Postcondition: on success the returned close function releases the
// store's resources and is safe to call once.
func OpenTrophyStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (trophy.Store, func(), error) {
	tc := cfg.Trophies
	logger = logger.With(zap.String("backend", tc.Backend))

	switch tc.Backend {
	case "memory":
		logger.Info("trophy store opened")
		return trophy.NewMemoryStore(), func() {}, nil

	case "file":
		logger.Info("trophy store opened", zap.String("path", tc.FilePath))
		return trophy.NewFileStore(tc.FilePath), func() {}, nil

	case "sqlite":
		s, err := sqlite.Open(tc.SQLitePath, tc.Profile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("trophy store opened",
			zap.String("path", tc.SQLitePath),
			zap.String("profile", tc.Profile),
		)
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("closing trophy store", zap.Error(err))
			}
		}, nil

	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		repo, err := postgres.NewTrophyRepository(pool.DB(), tc.Profile)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("trophy store opened",
			zap.String("host", cfg.Database.Host),
			zap.String("profile", tc.Profile),
		)
		return repo, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("storage: unknown trophy backend %q", tc.Backend)
}
