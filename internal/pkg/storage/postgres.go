package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// Ensure PostgresOddsStorage implements OddsStore
var _ OddsStore = (*PostgresOddsStorage)(nil)

// PostgresOddsStorage persists odds aggregates: a current-odds snapshot
// row per (match, market, bookmaker, outcome) plus an append-only
// history of every odds change seen.
type PostgresOddsStorage struct {
	db *sql.DB
}

// NewPostgresOddsStorage opens the connection and ensures the schema.
func NewPostgresOddsStorage(dsn string) (*PostgresOddsStorage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is required")
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

	s := &PostgresOddsStorage{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL odds storage initialized successfully")
	return s, nil
}

func (s *PostgresOddsStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS odds_snapshots (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(100) NOT NULL,
		market_key VARCHAR(100) NOT NULL,
		is_back BOOLEAN NOT NULL,
		bookmaker_id VARCHAR(50) NOT NULL,
		bookmaker_name VARCHAR(200) NOT NULL,
		outcome_position INT NOT NULL,
		outcome_type VARCHAR(100) NOT NULL,
		odds DECIMAL(10, 4) NOT NULL,
		volume BIGINT NOT NULL DEFAULT 0,
		odds_changed_at TIMESTAMP NOT NULL,
		recorded_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE(match_id, market_key, is_back, bookmaker_id, outcome_position)
	);

	CREATE TABLE IF NOT EXISTS odds_history (
		id SERIAL PRIMARY KEY,
		match_id VARCHAR(100) NOT NULL,
		market_key VARCHAR(100) NOT NULL,
		is_back BOOLEAN NOT NULL,
		bookmaker_id VARCHAR(50) NOT NULL,
		outcome_position INT NOT NULL,
		odds DECIMAL(10, 4) NOT NULL,
		volume BIGINT NOT NULL DEFAULT 0,
		odds_changed_at TIMESTAMP NOT NULL,
		UNIQUE(match_id, market_key, is_back, bookmaker_id, outcome_position, odds_changed_at, odds)
	);

	CREATE INDEX IF NOT EXISTS idx_odds_snapshots_match ON odds_snapshots(match_id);
	CREATE INDEX IF NOT EXISTS idx_odds_history_match_market ON odds_history(match_id, market_key);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// StoreMatchEventOdds upserts the latest point of every outcome series
// and appends the full series to the history table. Re-storing the same
// aggregate is a no-op for history (dedup on the unique key).
func (s *PostgresOddsStorage) StoreMatchEventOdds(ctx context.Context, odds *models.MatchEventOdds) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, market := range odds.AllMarkets() {
		marketKey := market.Key.String()
		for _, outcome := range market.Outcomes {
			if len(outcome.History) == 0 {
				continue
			}
			last := outcome.History[len(outcome.History)-1]
			if err := upsertSnapshot(ctx, tx, odds.MatchID, marketKey, market.IsBack, &outcome, last); err != nil {
				return fmt.Errorf("failed to upsert snapshot: %w", err)
			}
			for _, point := range outcome.History {
				if err := appendHistory(ctx, tx, odds.MatchID, marketKey, market.IsBack, &outcome, point); err != nil {
					return fmt.Errorf("failed to append history: %w", err)
				}
			}
		}
	}

	return tx.Commit()
}

func upsertSnapshot(ctx context.Context, tx *sql.Tx, matchID, marketKey string, isBack bool, outcome *models.Outcome, last models.OddsPoint) error {
	query := `
	INSERT INTO odds_snapshots (
		match_id, market_key, is_back, bookmaker_id, bookmaker_name,
		outcome_position, outcome_type, odds, volume, odds_changed_at, recorded_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
	ON CONFLICT (match_id, market_key, is_back, bookmaker_id, outcome_position) DO UPDATE SET
		bookmaker_name = EXCLUDED.bookmaker_name,
		outcome_type = EXCLUDED.outcome_type,
		odds = EXCLUDED.odds,
		volume = EXCLUDED.volume,
		odds_changed_at = EXCLUDED.odds_changed_at,
		recorded_at = NOW()
	`
	_, err := tx.ExecContext(ctx, query,
		matchID, marketKey, isBack, outcome.BookmakerID, outcome.BookmakerName,
		outcome.Position, outcome.OutcomeType, last.Odds, last.Volume, last.Timestamp,
	)
	return err
}

func appendHistory(ctx context.Context, tx *sql.Tx, matchID, marketKey string, isBack bool, outcome *models.Outcome, point models.OddsPoint) error {
	query := `
	INSERT INTO odds_history (
		match_id, market_key, is_back, bookmaker_id,
		outcome_position, odds, volume, odds_changed_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT DO NOTHING
	`
	_, err := tx.ExecContext(ctx, query,
		matchID, marketKey, isBack, outcome.BookmakerID,
		outcome.Position, point.Odds, point.Volume, point.Timestamp,
	)
	return err
}

// GetLastOdds returns the stored snapshot odds and change time for one
// (match, market, bookmaker, outcome position), or zero values when
// nothing is stored yet.
func (s *PostgresOddsStorage) GetLastOdds(ctx context.Context, matchID, marketKey, bookmakerID string, position int) (float64, time.Time, error) {
	query := `
	SELECT odds, odds_changed_at FROM odds_snapshots
	WHERE match_id = $1 AND market_key = $2 AND bookmaker_id = $3 AND outcome_position = $4
	`
	var odds float64
	var changedAt time.Time
	err := s.db.QueryRowContext(ctx, query, matchID, marketKey, bookmakerID, position).Scan(&odds, &changedAt)
	if err == sql.ErrNoRows {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to get last odds: %w", err)
	}
	return odds, changedAt, nil
}

// CleanFinishedMatches deletes snapshots whose match started before the
// cutoff; history rows are kept.
func (s *PostgresOddsStorage) CleanFinishedMatches(ctx context.Context, cutoff time.Time) error {
	query := `DELETE FROM odds_snapshots WHERE odds_changed_at < $1`
	res, err := s.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clean odds_snapshots: %w", err)
	}
	rows, _ := res.RowsAffected()
	if rows > 0 {
		slog.Info("Cleaned stale odds_snapshots", "rows_deleted", rows)
	}
	return nil
}

// Close closes the database connection.
func (s *PostgresOddsStorage) Close() error {
	return s.db.Close()
}
