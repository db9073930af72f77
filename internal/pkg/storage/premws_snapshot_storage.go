package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Vodeneev/premwsfeed/internal/pkg/config"
	"github.com/Vodeneev/premwsfeed/internal/pkg/livefeed"
	_ "github.com/lib/pq"
)

// PremwsSnapshotStorage periodically persists the premws engine's full
// match table to Postgres for offline analysis. It is optional: the engine
// itself never persists anything and runs with zero storage configured.
type PremwsSnapshotStorage struct {
	db    *sql.DB
	table string
}

// NewPremwsSnapshotStorage opens a new Postgres connection, pings it, and
// ensures the snapshot table exists.
func NewPremwsSnapshotStorage(pg *config.PostgresConfig, snap config.PremwsSnapshotConfig) (*PremwsSnapshotStorage, error) {
	if pg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required for premws snapshot storage")
	}
	table := snap.Table
	if table == "" {
		table = "premws_match_snapshots"
	}

	dsn, err := parseDSNForMultipleHosts(pg.DSN)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PremwsSnapshotStorage{db: db, table: table}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize premws snapshot schema: %w", err)
	}

	slog.Info("premws snapshot storage initialized", "table", table)
	return s, nil
}

func (s *PremwsSnapshotStorage) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		event_id VARCHAR(64) NOT NULL PRIMARY KEY,
		fixture_id VARCHAR(64) NOT NULL DEFAULT '',
		sport_id VARCHAR(16) NOT NULL,
		sport_name VARCHAR(100) NOT NULL,
		team1 VARCHAR(300) NOT NULL,
		team2 VARCHAR(300) NOT NULL,
		tournament VARCHAR(300) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		score_raw VARCHAR(100) NOT NULL DEFAULT '',
		serving SMALLINT NOT NULL DEFAULT 0,
		snapshot_taken_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_%s_sport ON %s(sport_id);
	`, s.table, s.table, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// WriteSnapshot upserts one row per match currently tracked by engine.
func (s *PremwsSnapshotStorage) WriteSnapshot(ctx context.Context, matches []*livefeed.Match) error {
	if len(matches) == 0 {
		return nil
	}
	query := fmt.Sprintf(`
	INSERT INTO %s (
		event_id, fixture_id, sport_id, sport_name, team1, team2,
		tournament, status, score_raw, serving, snapshot_taken_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	ON CONFLICT (event_id) DO UPDATE SET
		fixture_id = EXCLUDED.fixture_id,
		sport_id = EXCLUDED.sport_id,
		sport_name = EXCLUDED.sport_name,
		team1 = EXCLUDED.team1,
		team2 = EXCLUDED.team2,
		tournament = EXCLUDED.tournament,
		status = EXCLUDED.status,
		score_raw = EXCLUDED.score_raw,
		serving = EXCLUDED.serving,
		snapshot_taken_at = EXCLUDED.snapshot_taken_at
	`, s.table)

	for _, m := range matches {
		if _, err := s.db.ExecContext(ctx, query,
			m.EventID, m.FixtureID, m.SportID, m.SportName, m.Team1, m.Team2,
			m.Tournament, m.Status.String(), m.ScoreRaw, m.Serving,
		); err != nil {
			return fmt.Errorf("snapshot event %s: %w", m.EventID, err)
		}
	}
	return nil
}

// RunPeriodic calls WriteSnapshot(getMatches()) every interval until ctx is
// canceled. Mirrors the periodic-flush shape of the bookmaker parsers'
// background loops.
func (s *PremwsSnapshotStorage) RunPeriodic(ctx context.Context, interval time.Duration, getMatches func() []*livefeed.Match) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.WriteSnapshot(ctx, getMatches()); err != nil {
				slog.Warn("premws: snapshot write failed", "error", err)
			}
		}
	}
}

// Close closes the underlying database connection.
func (s *PremwsSnapshotStorage) Close() error {
	return s.db.Close()
}
