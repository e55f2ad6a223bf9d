package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmptyProfile is returned when a repository is built without a profile.
var ErrEmptyProfile = errors.New("postgres: trophy profile must not be empty")

// TrophyRepository is a trophy.Store scoped to one profile.
type TrophyRepository struct {
	db      *pgxpool.Pool
	profile string
}

// NewTrophyRepository creates a TrophyRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool with the trophies
// table migrated.
func NewTrophyRepository(db *pgxpool.Pool, profile string) (*TrophyRepository, error) {
	if profile == "" {
		return nil, ErrEmptyProfile
	}
	return &TrophyRepository{db: db, profile: profile}, nil
}

// Load returns the profile's trophies in the order they were first earned.
func (r *TrophyRepository) Load(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT name FROM trophies WHERE profile = $1 ORDER BY id`,
		r.profile,
	)
	if err != nil {
		return nil, fmt.Errorf("querying trophies: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning trophy: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trophies: %w", err)
	}
	return names, nil
}

// Earn records name, reporting whether it was new for the profile.
//
// Postcondition: concurrent Earn calls for the same name report true at most once.
func (r *TrophyRepository) Earn(ctx context.Context, name string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO trophies (profile, name) VALUES ($1, $2)
		 ON CONFLICT (profile, name) DO NOTHING`,
		r.profile, name,
	)
	if err != nil {
		return false, fmt.Errorf("inserting trophy: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Reset deletes every trophy of the profile.
func (r *TrophyRepository) Reset(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM trophies WHERE profile = $1`, r.profile); err != nil {
		return fmt.Errorf("deleting trophies: %w", err)
	}
	return nil
}
