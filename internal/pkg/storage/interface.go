package storage

import (
	"context"

	"github.com/mazyy/RobbinOdds/internal/pkg/models"
)

// OddsStore is a sink for assembled per-match odds aggregates. The
// scraper fans each aggregate out to every configured store.
type OddsStore interface {
	// StoreMatchEventOdds persists one assembled aggregate.
	StoreMatchEventOdds(ctx context.Context, odds *models.MatchEventOdds) error

	// Close closes the underlying connection.
	Close() error
}
