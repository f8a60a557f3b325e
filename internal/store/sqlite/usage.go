package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/easylaunch/internal/domain"
)

// RecordLaunch increments the launch counter of id.
func (s *Store) RecordLaunch(ctx context.Context, id domain.ActivityIdentitySer) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO launches (package, class, profile_serial, count, last_launch)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (package, class, profile_serial)
		DO UPDATE SET count = count + 1, last_launch = excluded.last_launch`,
		id.Package, id.Class, int64(id.ProfileSerial), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to record launch: %w", err)
	}
	return nil
}

// LaunchCounts returns every launch counter.
func (s *Store) LaunchCounts(ctx context.Context) (map[domain.ActivityIdentitySer]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT package, class, profile_serial, count FROM launches`)
	if err != nil {
		return nil, fmt.Errorf("failed to query launches: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.ActivityIdentitySer]int64)
	for rows.Next() {
		var (
			id     domain.ActivityIdentitySer
			serial int64
			n      int64
		)
		if err := rows.Scan(&id.Package, &id.Class, &serial, &n); err != nil {
			return nil, fmt.Errorf("failed to scan launch counter: %w", err)
		}
		id.ProfileSerial = domain.ProfileSerial(serial)
		counts[id] = n
	}
	return counts, rows.Err()
}

// ForgetLaunches deletes the counters of ids.
func (s *Store) ForgetLaunches(ctx context.Context, ids ...domain.ActivityIdentitySer) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM launches WHERE package = ? AND class = ? AND profile_serial = ?`,
			id.Package, id.Class, int64(id.ProfileSerial)); err != nil {
			return fmt.Errorf("failed to delete launch counter %s: %w", id, err)
		}
	}
	return tx.Commit()
}
