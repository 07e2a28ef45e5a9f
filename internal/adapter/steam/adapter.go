package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"CrackSync/internal/config"
	"CrackSync/internal/interfaces"
	"CrackSync/internal/model"
	"CrackSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

const (
	defaultRetryCount  = 3
	defaultBackoffBase = time.Second
	defaultBatchSize   = 10
	defaultBatchDelay  = 500 * time.Millisecond
)

type Adapter struct {
	cfg        *config.SourceConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewSteamAdapter(cfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

func (a *Adapter) GetName() string {
	return "Steam"
}

// FetchCatalog pulls the full app list. There is no partial catalog: any
// failure here is fatal for the run.
func (a *Adapter) FetchCatalog(ctx context.Context, searchTerm string) ([]model.CatalogApp, error) {
	_ = searchTerm // narrowing happens in the filter stage

	listURL := fmt.Sprintf("%s/ISteamApps/GetAppList/v2/", a.cfg.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build app list request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch Steam app list: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Errorf("close app list response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Steam app list returned status %d", resp.StatusCode)
	}

	var payload model.SteamAppListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode Steam app list: %w", err)
	}

	a.logger.Infof("fetched %d apps from Steam catalog", len(payload.AppList.Apps))
	return payload.AppList.Apps, nil
}

// EnrichApps fetches storefront detail for each candidate in fixed-size
// concurrent batches, pausing between batches so the storefront API is not
// hammered. Each task writes only its own slot of the result slice; the
// slots are merged after the batch settles. A candidate whose detail cannot
// be fetched, or whose detail says it is not a game, is dropped.
func (a *Adapter) EnrichApps(ctx context.Context, apps []model.CatalogApp) []*model.RawAppDetail {
	batchSize := a.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	batchDelay := a.cfg.BatchDelay
	if batchDelay <= 0 {
		batchDelay = defaultBatchDelay
	}

	slots := make([]*model.RawAppDetail, len(apps))
	for start := 0; start < len(apps); start += batchSize {
		end := start + batchSize
		if end > len(apps) {
			end = len(apps)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(slot int, app model.CatalogApp) {
				defer wg.Done()
				detail, err := a.fetchAppDetail(ctx, app.AppID)
				if err != nil {
					a.logger.WithError(err).WithField("appid", app.AppID).Warn("detail fetch exhausted retries, dropping app")
					return
				}
				if detail.Type != "game" {
					a.logger.WithFields(logrus.Fields{"appid": app.AppID, "type": detail.Type}).Warn("not a game, dropping app")
					return
				}
				slots[slot] = &model.RawAppDetail{
					Source: a.GetName(),
					AppID:  app.AppID,
					Name:   app.Name,
					Data:   detail,
				}
			}(i, apps[i])
		}
		wg.Wait()

		if end < len(apps) {
			select {
			case <-ctx.Done():
				a.logger.Warn("context canceled between batches, returning partial result")
				return compact(slots)
			case <-time.After(batchDelay):
			}
		}
	}

	return compact(slots)
}

// fetchAppDetail tries up to RetryCount times, sleeping backoff_base * attempt
// between tries.
func (a *Adapter) fetchAppDetail(ctx context.Context, appID int64) (*model.StoreAppDetail, error) {
	retryCount := a.cfg.RetryCount
	if retryCount <= 0 {
		retryCount = defaultRetryCount
	}
	backoffBase := a.cfg.BackoffBase
	if backoffBase <= 0 {
		backoffBase = defaultBackoffBase
	}

	var lastErr error
	for attempt := 1; attempt <= retryCount; attempt++ {
		detail, err := a.requestAppDetail(ctx, appID)
		if err == nil {
			return detail, nil
		}
		lastErr = err
		if attempt < retryCount {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoffBase * time.Duration(attempt)):
			}
		}
	}
	return nil, lastErr
}

func (a *Adapter) requestAppDetail(ctx context.Context, appID int64) (*model.StoreAppDetail, error) {
	detailURL := fmt.Sprintf("%s/api/appdetails?appids=%d", a.cfg.StoreBaseURL, appID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build appdetails request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch appdetails: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			a.logger.Errorf("close appdetails response body: %v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("appdetails returned status %d", resp.StatusCode)
	}

	// The response is a map keyed by the requested app ID.
	var envelopes map[string]model.StoreDetailEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelopes); err != nil {
		return nil, fmt.Errorf("decode appdetails: %w", err)
	}

	envelope, ok := envelopes[strconv.FormatInt(appID, 10)]
	if !ok || !envelope.Success || envelope.Data == nil {
		return nil, fmt.Errorf("no valid detail data for app %d", appID)
	}
	return envelope.Data, nil
}

// ConvertToDBModel maps storefront detail into game rows.
func (a *Adapter) ConvertToDBModel(raw []*model.RawAppDetail) ([]*model.Game, []string, error) {
	games := make([]*model.Game, 0, len(raw))
	now := time.Now()

	for _, r := range raw {
		detail, ok := r.Data.(*model.StoreAppDetail)
		if !ok {
			a.logger.WithField("appid", r.AppID).Warn("unexpected raw detail payload type, skipping")
			continue
		}
		games = append(games, mapStoreDetail(r, detail, now))
	}

	return games, storeSyncColumns, nil
}

func compact(slots []*model.RawAppDetail) []*model.RawAppDetail {
	out := make([]*model.RawAppDetail, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
