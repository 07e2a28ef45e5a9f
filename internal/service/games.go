package service

import (
	"context"
	"encoding/json"
	"time"

	"CrackSync/internal/model"
	"CrackSync/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// GameService serves the dashboard read side.
type GameService struct {
	repo   *repository.GameRepository
	logger *logrus.Logger
}

func NewGameService(repo *repository.GameRepository, logger *logrus.Logger) *GameService {
	return &GameService{repo: repo, logger: logger}
}

// CrackStatusInfo is the status block nested in game responses.
type CrackStatusInfo struct {
	Status        string   `json:"status"`
	CrackDate     *string  `json:"crack_date,omitempty"`
	CrackedBy     *string  `json:"cracked_by,omitempty"`
	DRMProtection []string `json:"drm_protection,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
	Verified      bool     `json:"verified"`
}

// GameSummary is one list item, shaped for the dashboard cards.
type GameSummary struct {
	ID             string           `json:"id"`
	SteamID        int64            `json:"steam_id"`
	Title          string           `json:"title"`
	ReleaseDate    *string          `json:"release_date,omitempty"`
	Developer      *string          `json:"developer,omitempty"`
	Publisher      *string          `json:"publisher,omitempty"`
	Genre          *string          `json:"genre,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	Owners         *string          `json:"owners,omitempty"`
	PlayersForever *int64           `json:"players_forever,omitempty"`
	Players2Weeks  *int64           `json:"players_2weeks,omitempty"`
	Positive       *int64           `json:"positive,omitempty"`
	Negative       *int64           `json:"negative,omitempty"`
	Price          *float64         `json:"price,omitempty"`
	IsFree         bool             `json:"is_free"`
	HeaderImage    *string          `json:"header_image,omitempty"`
	CrackStatus    *CrackStatusInfo `json:"crack_status,omitempty"`
}

// GameDetail is the full single-game response.
type GameDetail struct {
	GameSummary
	Description      *string  `json:"description,omitempty"`
	Website          *string  `json:"website,omitempty"`
	MetacriticScore  *int     `json:"metacritic_score,omitempty"`
	MetacriticURL    *string  `json:"metacritic_url,omitempty"`
	ScreenshotsCount int      `json:"screenshots_count"`
	Achievements     int      `json:"achievements"`
	DLCCount         int      `json:"dlc_count"`
	HasAchievements  bool     `json:"has_achievements"`
	HasDLC           bool     `json:"has_dlc"`
	HasTradingCards  bool     `json:"has_trading_cards"`
	EarlyAccess      bool     `json:"early_access"`
	Languages        []string `json:"languages,omitempty"`
	LastSyncedAt     *string  `json:"last_synced_at,omitempty"`
}

// GameListResult is the paginated list envelope.
type GameListResult struct {
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
	Items    []GameSummary `json:"items"`
}

// StatsResult are the dashboard aggregates.
type StatsResult struct {
	TotalGames      int64   `json:"total_games"`
	Cracked         int64   `json:"cracked"`
	Uncracked       int64   `json:"uncracked"`
	DRMFree         int64   `json:"drm_free"`
	LatestCrackDate *string `json:"latest_crack_date,omitempty"`
}

// ListGames returns a page of games matching the filter.
func (s *GameService) ListGames(ctx context.Context, filter repository.GameFilter, page, pageSize int) (*GameListResult, error) {
	games, total, err := s.repo.ListGames(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	result := &GameListResult{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Items:    make([]GameSummary, 0, len(games)),
	}
	for _, g := range games {
		result.Items = append(result.Items, buildSummary(g))
	}
	return result, nil
}

// GetGame returns the full detail for one steam_id.
func (s *GameService) GetGame(ctx context.Context, steamID int64) (*GameDetail, error) {
	g, err := s.repo.GetGameBySteamID(ctx, steamID)
	if err != nil {
		return nil, err
	}
	detail := &GameDetail{
		GameSummary:      buildSummary(g),
		Description:      g.Description,
		Website:          g.Website,
		MetacriticScore:  g.MetacriticScore,
		MetacriticURL:    g.MetacriticURL,
		ScreenshotsCount: g.ScreenshotsCount,
		Achievements:     g.Achievements,
		DLCCount:         g.DLCCount,
		HasAchievements:  g.HasAchievements,
		HasDLC:           g.HasDLC,
		HasTradingCards:  g.HasTradingCards,
		EarlyAccess:      g.EarlyAccess,
		Languages:        decodeStringArray(g.Languages),
		LastSyncedAt:     formatTime(g.LastSyncedAt, time.RFC3339),
	}
	return detail, nil
}

// GetStats returns the dashboard aggregates.
func (s *GameService) GetStats(ctx context.Context) (*StatsResult, error) {
	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsResult{
		TotalGames:      stats.TotalGames,
		Cracked:         stats.Cracked,
		Uncracked:       stats.Uncracked,
		DRMFree:         stats.DRMFree,
		LatestCrackDate: stats.LatestCrackDate,
	}, nil
}

func buildSummary(g *model.Game) GameSummary {
	summary := GameSummary{
		ID:             g.ID,
		SteamID:        g.SteamID,
		Title:          g.Title,
		ReleaseDate:    formatTime(g.ReleaseDate, "2006-01-02"),
		Developer:      g.Developer,
		Publisher:      g.Publisher,
		Genre:          g.Genre,
		Tags:           decodeStringArray(g.Tags),
		Owners:         g.Owners,
		PlayersForever: g.PlayersForever,
		Players2Weeks:  g.Players2Weeks,
		Positive:       g.Positive,
		Negative:       g.Negative,
		Price:          g.Price,
		IsFree:         g.IsFree,
		HeaderImage:    g.HeaderImage,
	}
	if g.CrackStatus != nil {
		summary.CrackStatus = &CrackStatusInfo{
			Status:        g.CrackStatus.Status,
			CrackDate:     formatTime(g.CrackStatus.CrackDate, "2006-01-02"),
			CrackedBy:     g.CrackStatus.CrackedBy,
			DRMProtection: decodeStringArray(g.CrackStatus.DRMProtection),
			Notes:         g.CrackStatus.Notes,
			Verified:      g.CrackStatus.Verified,
		}
	}
	return summary
}

func decodeStringArray(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(layout)
	return &formatted
}
