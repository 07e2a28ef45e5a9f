package service

import (
	"context"
	"encoding/json"
	"fmt"

	"CrackSync/internal/adapter/steam"
	"CrackSync/internal/adapter/steamspy"
	"CrackSync/internal/config"
	"CrackSync/internal/interfaces"
	"CrackSync/internal/model"
	"CrackSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SyncService struct {
	db     *gorm.DB
	logger *logrus.Logger
	store  interfaces.GameStore
	cfg    *config.Config
	// adapter factory: adding a new source only touches this map
	adapterFactory map[string]func(sourceCfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter
}

func NewSyncService(db *gorm.DB, logger *logrus.Logger, cfg *config.Config) *SyncService {
	return &SyncService{
		db:     db,
		logger: logger,
		store:  repository.NewGameRepository(db),
		cfg:    cfg,
		adapterFactory: map[string]func(sourceCfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter{
			"steam":    steam.NewSteamAdapter,
			"steamspy": steamspy.NewSteamSpyAdapter,
		},
	}
}

// RegisterAdapter adds or replaces a source builder.
func (s *SyncService) RegisterAdapter(name string, builder func(sourceCfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter) {
	s.adapterFactory[name] = builder
}

// SyncResult is the outcome of one completed run.
type SyncResult struct {
	Processed int
	Message   string
}

// SyncSource runs the whole pipeline for one source: catalog fetch, filter,
// enrichment, mapping, two-phase persistence. Catalog fetch and the game
// upsert are fatal; everything per-item degrades item by item.
func (s *SyncService) SyncSource(ctx context.Context, sourceName string, limit int, searchTerm string) (*SyncResult, error) {
	adapterBuilder, ok := s.adapterFactory[sourceName]
	if !ok {
		return nil, fmt.Errorf("unsupported source: %s", sourceName)
	}
	sourceCfg, ok := s.cfg.Sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("no configuration for source: %s", sourceName)
	}
	adapter := adapterBuilder(&sourceCfg, s.logger)

	if limit <= 0 {
		limit = s.cfg.Sync.DefaultLimit
	}

	// 1. catalog fetch: there is no partial catalog, failure aborts the run
	catalog, err := adapter.FetchCatalog(ctx, searchTerm)
	if err != nil {
		return nil, fmt.Errorf("%s catalog fetch failed: %w", sourceName, err)
	}

	// 2. filter down to likely real games
	candidates := FilterCatalog(catalog, CatalogFilter{
		MinAppID:         s.cfg.Sync.MinAppID,
		MinNameLength:    s.cfg.Sync.MinNameLength,
		ExcludedKeywords: s.cfg.Sync.ExcludedKeywords,
		SearchTerm:       searchTerm,
		Limit:            limit,
	})
	s.logger.Infof("%s: %d of %d catalog entries pass the filter", sourceName, len(candidates), len(catalog))
	if len(candidates) == 0 {
		return &SyncResult{Processed: 0, Message: "no catalog entries passed the filter"}, nil
	}

	// 3. per-app enrichment, failures drop single apps only
	raw := adapter.EnrichApps(ctx, candidates)
	if len(raw) == 0 {
		return &SyncResult{Processed: 0, Message: "no apps could be enriched"}, nil
	}

	// 4. map to rows
	games, updateColumns, err := adapter.ConvertToDBModel(raw)
	if err != nil {
		return nil, fmt.Errorf("%s conversion failed: %w", sourceName, err)
	}

	// 5. phase 1: upsert games, fatal on error so no orphan status rows exist
	idBySteamID, err := s.store.UpsertGames(ctx, games, updateColumns)
	if err != nil {
		return nil, fmt.Errorf("%s game upsert failed: %w", sourceName, err)
	}

	// 6. phase 2: seed crack status for first-seen games; a failure here is
	// logged but the run still counts as successful, the game data is in
	if err := s.store.SeedCrackStatus(ctx, buildInitialStatuses(idBySteamID)); err != nil {
		s.logger.WithError(err).Error("crack status seeding failed, game data was persisted")
	}

	s.logger.Infof("%s sync finished, %d games processed", sourceName, len(games))
	return &SyncResult{
		Processed: len(games),
		Message:   fmt.Sprintf("%s data synchronized successfully", adapter.GetName()),
	}, nil
}

// buildInitialStatuses seeds uncracked/unverified rows with the platform's
// baseline DRM. The conflict-ignore upsert keeps curated rows untouched.
func buildInitialStatuses(idBySteamID map[int64]string) []*model.CrackStatus {
	drm, err := json.Marshal(model.BaselineDRM)
	if err != nil {
		drm = []byte("[]")
	}

	statuses := make([]*model.CrackStatus, 0, len(idBySteamID))
	for _, gameID := range idBySteamID {
		statuses = append(statuses, &model.CrackStatus{
			GameID:        gameID,
			Status:        model.StatusUncracked,
			DRMProtection: drm,
			Verified:      false,
		})
	}
	return statuses
}
