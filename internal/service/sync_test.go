package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"CrackSync/internal/config"
	"CrackSync/internal/interfaces"
	"CrackSync/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.Game{}, &model.CrackStatus{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fakeAdapter is an in-memory source: the catalog is fixed and every
// candidate enriches successfully.
type fakeAdapter struct {
	catalog  []model.CatalogApp
	fetchErr error
}

func (f *fakeAdapter) GetName() string { return "Fake" }

func (f *fakeAdapter) FetchCatalog(ctx context.Context, searchTerm string) ([]model.CatalogApp, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.catalog, nil
}

func (f *fakeAdapter) EnrichApps(ctx context.Context, apps []model.CatalogApp) []*model.RawAppDetail {
	out := make([]*model.RawAppDetail, 0, len(apps))
	for _, app := range apps {
		out = append(out, &model.RawAppDetail{Source: f.GetName(), AppID: app.AppID, Name: app.Name})
	}
	return out
}

func (f *fakeAdapter) ConvertToDBModel(raw []*model.RawAppDetail) ([]*model.Game, []string, error) {
	now := time.Now()
	games := make([]*model.Game, 0, len(raw))
	for _, r := range raw {
		games = append(games, &model.Game{SteamID: r.AppID, Title: r.Name, LastSyncedAt: &now})
	}
	return games, []string{"title", "last_synced_at", "updated_at"}, nil
}

func newFakeSyncService(t *testing.T, db *gorm.DB, fake *fakeAdapter) *SyncService {
	t.Helper()
	cfg := &config.Config{
		Sync: config.SyncConfig{
			DefaultLimit:     50,
			MinAppID:         50000,
			MinNameLength:    2,
			ExcludedKeywords: []string{"Demo", "SDK", "Dedicated Server", "Beta"},
		},
		Sources: map[string]config.SourceConfig{"fake": {}},
	}
	svc := NewSyncService(db, testLogger(), cfg)
	svc.RegisterAdapter("fake", func(sourceCfg *config.SourceConfig, logger *logrus.Logger) interfaces.SourceAdapter {
		return fake
	})
	return svc
}

func TestSyncSourceEndToEnd(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeAdapter{catalog: []model.CatalogApp{
		{AppID: 60001, Name: "Game One"},
		{AppID: 60002, Name: "Game Two"},
		{AppID: 60003, Name: "Game Three"},
	}}
	svc := newFakeSyncService(t, db, fake)
	ctx := context.Background()

	// 3 qualifying apps, limit 2: exactly min(limit, qualifying) persisted
	result, err := svc.SyncSource(ctx, "fake", 2, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)

	var gameCount, statusCount int64
	require.NoError(t, db.Model(&model.Game{}).Count(&gameCount).Error)
	require.NoError(t, db.Model(&model.CrackStatus{}).Count(&statusCount).Error)
	assert.Equal(t, int64(2), gameCount)
	assert.Equal(t, int64(2), statusCount)

	// every seeded status starts uncracked with the baseline DRM
	var statuses []model.CrackStatus
	require.NoError(t, db.Find(&statuses).Error)
	for _, cs := range statuses {
		assert.Equal(t, model.StatusUncracked, cs.Status)
		assert.False(t, cs.Verified)
		assert.JSONEq(t, `["Steam"]`, string(cs.DRMProtection))
	}

	// re-running the same sync adds nothing
	result, err = svc.SyncSource(ctx, "fake", 2, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	require.NoError(t, db.Model(&model.Game{}).Count(&gameCount).Error)
	require.NoError(t, db.Model(&model.CrackStatus{}).Count(&statusCount).Error)
	assert.Equal(t, int64(2), gameCount)
	assert.Equal(t, int64(2), statusCount)
}

func TestSyncSourcePreservesCuratedStatus(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeAdapter{catalog: []model.CatalogApp{{AppID: 60001, Name: "Curated Game"}}}
	svc := newFakeSyncService(t, db, fake)
	ctx := context.Background()

	_, err := svc.SyncSource(ctx, "fake", 10, "")
	require.NoError(t, err)

	require.NoError(t, db.Model(&model.CrackStatus{}).
		Where("1 = 1").
		Updates(map[string]interface{}{"status": model.StatusCracked, "verified": true}).Error)

	_, err = svc.SyncSource(ctx, "fake", 10, "")
	require.NoError(t, err)

	var cs model.CrackStatus
	require.NoError(t, db.First(&cs).Error)
	assert.Equal(t, model.StatusCracked, cs.Status)
	assert.True(t, cs.Verified)
}

func TestSyncSourceAppliesCatalogFilter(t *testing.T) {
	db := newTestDB(t)
	fake := &fakeAdapter{catalog: []model.CatalogApp{
		{AppID: 5000, Name: "Internal Tool"}, // below the ID floor
		{AppID: 60001, Name: "Game Demo"},    // excluded keyword
		{AppID: 60002, Name: "Real Game"},
	}}
	svc := newFakeSyncService(t, db, fake)

	result, err := svc.SyncSource(context.Background(), "fake", 10, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	var g model.Game
	require.NoError(t, db.First(&g).Error)
	assert.Equal(t, int64(60002), g.SteamID)
}

func TestSyncSourceFailures(t *testing.T) {
	t.Run("unknown source", func(t *testing.T) {
		db := newTestDB(t)
		svc := newFakeSyncService(t, db, &fakeAdapter{})

		_, err := svc.SyncSource(context.Background(), "nope", 10, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported source")
	})

	t.Run("catalog fetch failure aborts the run", func(t *testing.T) {
		db := newTestDB(t)
		fake := &fakeAdapter{fetchErr: errors.New("upstream down")}
		svc := newFakeSyncService(t, db, fake)

		_, err := svc.SyncSource(context.Background(), "fake", 10, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog fetch failed")

		var count int64
		require.NoError(t, db.Model(&model.Game{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("empty filtered catalog is a successful no-op", func(t *testing.T) {
		db := newTestDB(t)
		fake := &fakeAdapter{catalog: []model.CatalogApp{{AppID: 10, Name: "Old Tool"}}}
		svc := newFakeSyncService(t, db, fake)

		result, err := svc.SyncSource(context.Background(), "fake", 10, "")
		require.NoError(t, err)
		assert.Zero(t, result.Processed)
	})
}
