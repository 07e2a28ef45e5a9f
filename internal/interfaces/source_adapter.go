package interfaces

import (
	"context"

	"CrackSync/internal/model"
)

// SourceAdapter is the contract every upstream source implements.
type SourceAdapter interface {
	// GetName returns the source name.
	GetName() string
	// FetchCatalog lists (appid, name) pairs. A non-empty searchTerm narrows
	// the catalog to matching names. Any failure here aborts the whole run.
	FetchCatalog(ctx context.Context, searchTerm string) ([]model.CatalogApp, error)
	// EnrichApps resolves per-app detail for the candidates. Failures are
	// per-item: an app whose detail cannot be fetched, or that turns out not
	// to be a game, is dropped from the result, never escalated.
	EnrichApps(ctx context.Context, apps []model.CatalogApp) []*model.RawAppDetail
	// ConvertToDBModel maps enriched entries into game rows and reports which
	// columns this source owns on conflict, so one source's sync never blanks
	// the other's data.
	ConvertToDBModel(raw []*model.RawAppDetail) ([]*model.Game, []string, error)
}

// GameStore is the persistence the sync pipeline needs.
type GameStore interface {
	// UpsertGames writes game rows keyed by steam_id and returns the internal
	// ID assigned to each steam_id (existing or newly created).
	UpsertGames(ctx context.Context, games []*model.Game, updateColumns []string) (map[int64]string, error)
	// SeedCrackStatus inserts initial status rows, ignoring games that
	// already have one. Curated rows are never overwritten.
	SeedCrackStatus(ctx context.Context, statuses []*model.CrackStatus) error
}
