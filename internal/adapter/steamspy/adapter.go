package steamspy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"CrackSync/internal/config"
	"CrackSync/internal/interfaces"
	"CrackSync/internal/model"
	"CrackSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// Adapter syncs from the SteamSpy aggregator. Unlike the storefront, one
// catalog call already carries every per-app statistic, so enrichment is a
// local lookup instead of another round of HTTP calls.
type Adapter struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger

	entries map[int64]*model.SteamSpyAppEntry // filled by FetchCatalog
}

func NewSteamSpyAdapter(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetName() string {
	return "SteamSpy"
}

// FetchCatalog pulls the full SteamSpy dump (a map keyed by app ID) and keeps
// it for the enrichment stage. Failure is fatal for the run.
func (a *Adapter) FetchCatalog(ctx context.Context, searchTerm string) ([]model.CatalogApp, error) {
	_ = searchTerm // narrowing happens in the filter stage

	allURL := fmt.Sprintf("%s/api.php?request=all&page=0", a.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, allURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build SteamSpy request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch SteamSpy catalog: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Errorf("close SteamSpy response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SteamSpy returned status %d", resp.StatusCode)
	}

	var payload map[string]*model.SteamSpyAppEntry
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode SteamSpy catalog: %w", err)
	}

	a.entries = make(map[int64]*model.SteamSpyAppEntry, len(payload))
	apps := make([]model.CatalogApp, 0, len(payload))
	for _, entry := range payload {
		if entry == nil || entry.AppID <= 0 {
			continue
		}
		a.entries[entry.AppID] = entry
		apps = append(apps, model.CatalogApp{AppID: entry.AppID, Name: entry.Name})
	}
	// map iteration order is random; the catalog contract is an ordered sequence
	sort.Slice(apps, func(i, j int) bool { return apps[i].AppID < apps[j].AppID })

	a.logger.Infof("fetched %d apps from SteamSpy", len(apps))
	return apps, nil
}

// EnrichApps resolves candidates against the dump fetched by FetchCatalog.
// Apps missing from the dump are dropped, never fatal.
func (a *Adapter) EnrichApps(ctx context.Context, apps []model.CatalogApp) []*model.RawAppDetail {
	_ = ctx
	out := make([]*model.RawAppDetail, 0, len(apps))
	for _, app := range apps {
		entry, ok := a.entries[app.AppID]
		if !ok {
			a.logger.WithField("appid", app.AppID).Warn("app missing from SteamSpy dump, dropping")
			continue
		}
		out = append(out, &model.RawAppDetail{
			Source: a.GetName(),
			AppID:  app.AppID,
			Name:   app.Name,
			Data:   entry,
		})
	}
	return out
}

// ConvertToDBModel maps aggregator entries into game rows. This is the
// statistics-side mapping strategy: it owns the ownership/player columns and
// leaves the storefront's descriptive columns untouched on conflict.
func (a *Adapter) ConvertToDBModel(raw []*model.RawAppDetail) ([]*model.Game, []string, error) {
	games := make([]*model.Game, 0, len(raw))
	now := time.Now()

	for _, r := range raw {
		entry, ok := r.Data.(*model.SteamSpyAppEntry)
		if !ok {
			a.logger.WithField("appid", r.AppID).Warn("unexpected raw detail payload type, skipping")
			continue
		}

		title := entry.Name
		if title == "" {
			title = r.Name
		}

		price, isFree := mapCentsPrice(entry.Price)

		games = append(games, &model.Game{
			SteamID:   r.AppID,
			Title:     title,
			Developer: optionalString(entry.Developer),
			Publisher: optionalString(entry.Publisher),

			Owners:                 optionalString(entry.Owners),
			OwnersVariance:         entry.OwnersVariance,
			PlayersForever:         entry.PlayersForever,
			PlayersForeverVariance: entry.PlayersForeverVariance,
			Players2Weeks:          entry.Players2Weeks,
			Players2WeeksVariance:  entry.Players2WeeksVariance,
			AverageForever:         optionalInt64(entry.AverageForever),
			Average2Weeks:          optionalInt64(entry.Average2Weeks),
			MedianForever:          optionalInt64(entry.MedianForever),
			Median2Weeks:           optionalInt64(entry.Median2Weeks),
			Positive:               optionalInt64(entry.Positive),
			Negative:               optionalInt64(entry.Negative),
			Userscore:              optionalInt(entry.Userscore),
			ScoreRank:              parseScoreRank(entry.ScoreRank),

			Price:  price,
			IsFree: isFree,

			LastSyncedAt: &now,
		})
	}

	return games, steamSpySyncColumns, nil
}

// steamSpySyncColumns are the columns the aggregator sync owns on conflict.
var steamSpySyncColumns = []string{
	"title", "developer", "publisher", "owners", "owners_variance",
	"players_forever", "players_forever_variance", "players_2weeks",
	"players_2weeks_variance", "average_forever", "average_2weeks",
	"median_forever", "median_2weeks", "positive", "negative", "userscore",
	"score_rank", "price", "is_free", "last_synced_at", "updated_at",
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optionalInt64 treats zero as present: a statistic of 0 is data, not absence.
func optionalInt64(v int64) *int64 {
	return &v
}

func optionalInt(v int) *int {
	return &v
}

// parseScoreRank handles SteamSpy's stringly-typed rank, empty when unranked.
func parseScoreRank(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// mapCentsPrice converts SteamSpy's cent string into a decimal price. An
// unparsable price is absent; an explicit "0" is a free game, not absence.
func mapCentsPrice(cents string) (*float64, bool) {
	if cents == "" {
		return nil, false
	}
	v, err := strconv.ParseInt(cents, 10, 64)
	if err != nil {
		return nil, false
	}
	price := float64(v) / 100
	return &price, v == 0
}
