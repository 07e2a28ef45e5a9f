package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"CrackSync/internal/interfaces"
	"CrackSync/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

var _ interfaces.GameStore = (*GameRepository)(nil)

// UpsertGames writes game rows keyed by steam_id in one transaction. On
// conflict only updateColumns are assigned, so the two sync strategies never
// blank each other's columns. Returns the internal ID for every steam_id.
func (r *GameRepository) UpsertGames(ctx context.Context, games []*model.Game, updateColumns []string) (map[int64]string, error) {
	if len(games) == 0 {
		return map[int64]string{}, nil
	}

	steamIDs := make([]int64, 0, len(games))
	for i := range games {
		if games[i].ID == "" {
			games[i].ID = uuid.NewString()
		}
		steamIDs = append(steamIDs, games[i].SteamID)
	}

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "steam_id"}},
		UpdateAll: true,
	}
	if len(updateColumns) > 0 {
		onConflict.UpdateAll = false
		onConflict.DoUpdates = clause.AssignmentColumns(updateColumns)
	}

	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Omit(clause.Associations).Clauses(onConflict).CreateInBatches(games, 200).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("upsert games: %w", err)
	}

	// resolve the surviving internal IDs; conflicting inserts kept their old one
	var rows []struct {
		ID      string
		SteamID int64
	}
	if err := tx.Model(&model.Game{}).
		Select("id", "steam_id").
		Where("steam_id IN ?", steamIDs).
		Find(&rows).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("resolve game ids: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	idBySteamID := make(map[int64]string, len(rows))
	for _, row := range rows {
		idBySteamID[row.SteamID] = row.ID
	}
	return idBySteamID, nil
}

// SeedCrackStatus inserts initial status rows with conflict-ignore on
// game_id: first write wins, curated rows survive every later sync.
func (r *GameRepository) SeedCrackStatus(ctx context.Context, statuses []*model.CrackStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	for i := range statuses {
		if statuses[i].ID == "" {
			statuses[i].ID = uuid.NewString()
		}
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "game_id"}},
			DoNothing: true,
		}).
		CreateInBatches(statuses, 200).Error; err != nil {
		return fmt.Errorf("seed crack status: %w", err)
	}
	return nil
}

// GameFilter holds dashboard list filters.
type GameFilter struct {
	Search string // case-insensitive title substring
	Status string // cracked/uncracked/drm_free; empty or "all" keeps everything
}

// ListGames pages through games with their crack status, most-played first.
func (r *GameRepository) ListGames(ctx context.Context, filter GameFilter, page, pageSize int) ([]*model.Game, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&model.Game{})
		if filter.Search != "" {
			q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
		}
		if filter.Status != "" && filter.Status != "all" {
			q = q.Joins("JOIN crack_status ON crack_status.game_id = games.id").
				Where("crack_status.status = ?", filter.Status)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var games []*model.Game
	if err := filtered().
		// qualify the select, the joined table repeats column names
		Select("games.*").
		Preload("CrackStatus").
		Order("players_2weeks DESC NULLS LAST").
		Order("steam_id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&games).Error; err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

// GetGameBySteamID loads one game with its crack status.
func (r *GameRepository) GetGameBySteamID(ctx context.Context, steamID int64) (*model.Game, error) {
	var game model.Game
	if err := r.db.WithContext(ctx).
		Preload("CrackStatus").
		Where("steam_id = ?", steamID).
		First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// CrackStats are the dashboard aggregates.
type CrackStats struct {
	TotalGames      int64
	Cracked         int64
	Uncracked       int64
	DRMFree         int64
	LatestCrackDate *string
}

// GetStats counts games per crack status plus the most recent crack date.
func (r *GameRepository) GetStats(ctx context.Context) (*CrackStats, error) {
	stats := &CrackStats{}

	if err := r.db.WithContext(ctx).Model(&model.Game{}).Count(&stats.TotalGames).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := r.db.WithContext(ctx).Model(&model.CrackStatus{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Find(&counts).Error; err != nil {
		return nil, err
	}
	for _, c := range counts {
		switch c.Status {
		case model.StatusCracked:
			stats.Cracked = c.Count
		case model.StatusUncracked:
			stats.Uncracked = c.Count
		case model.StatusDRMFree:
			stats.DRMFree = c.Count
		}
	}

	var latest model.CrackStatus
	err := r.db.WithContext(ctx).Model(&model.CrackStatus{}).
		Where("status = ? AND crack_date IS NOT NULL", model.StatusCracked).
		Order("crack_date DESC").
		First(&latest).Error
	switch {
	case err == nil && latest.CrackDate != nil:
		formatted := latest.CrackDate.UTC().Format("2006-01-02")
		stats.LatestCrackDate = &formatted
	case errors.Is(err, gorm.ErrRecordNotFound):
		// no cracked games yet
	case err != nil:
		return nil, err
	}

	return stats, nil
}
