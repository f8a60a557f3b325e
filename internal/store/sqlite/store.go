// Package sqlite persists favorites and launch counters in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
	"github.com/MrSnakeDoc/easylaunch/internal/stream"
)

//go:embed schema.sql
var schemaSQL string

// Store keeps the favorites list in one table, replaced
// wholesale inside a transaction on every edit, and the launch counters.
type Store struct {
	db *sql.DB

	// writeMu orders commits and their publication.
	writeMu sync.Mutex
	updates *stream.Latest[domain.FavoritesList]
}

// Open creates or opens the database at path and loads the current list.
//
// The database is configured with:
//   - WAL mode so observers can read while a replacement commits
//   - a single connection, SQLite has one writer anyway
//   - 5-second busy timeout for lock contention
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	s := &Store{
		db:      db,
		updates: stream.NewLatest[domain.FavoritesList](),
	}

	list, err := s.load(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	s.updates.Publish(list)

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Observe streams the list, starting with the current one.
func (s *Store) Observe(ctx context.Context) (<-chan domain.FavoritesList, error) {
	return s.updates.Subscribe(ctx), nil
}

// ReplaceAll deletes every row and inserts list in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, list domain.FavoritesList) error {
	if err := list.Validate(); err != nil {
		return fmt.Errorf("invalid favorites list: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM favorites`); err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO favorites (rank, package, class, profile_serial) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, fav := range list {
		if _, err := stmt.ExecContext(ctx, fav.Rank, fav.Identity.Package, fav.Identity.Class, int64(fav.Identity.ProfileSerial)); err != nil {
			return fmt.Errorf("failed to insert favorite %s: %w", fav.Identity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit favorites: %w", err)
	}

	s.updates.Publish(list.Clone())
	return nil
}

// List reads the persisted list in rank order.
func (s *Store) List(ctx context.Context) (domain.FavoritesList, error) {
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (domain.FavoritesList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rank, package, class, profile_serial FROM favorites ORDER BY rank`)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	list := domain.FavoritesList{}
	for rows.Next() {
		var (
			fav    domain.Favorite
			serial int64
		)
		if err := rows.Scan(&fav.Rank, &fav.Identity.Package, &fav.Identity.Class, &serial); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		fav.Identity.ProfileSerial = domain.ProfileSerial(serial)
		list = append(list, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	return list, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}
