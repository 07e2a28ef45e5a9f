package steamspy

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"CrackSync/internal/config"
	"CrackSync/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const dumpPayload = `{
	"60002": {"appid": 60002, "name": "Second Game", "developer": "Dev B", "publisher": "Pub B",
		"score_rank": "", "positive": 10, "negative": 90, "userscore": 12,
		"owners": "0 .. 20,000", "average_forever": 5, "average_2weeks": 0,
		"median_forever": 2, "median_2weeks": 0, "price": "0", "initialprice": "0", "discount": "0", "ccu": 3},
	"60001": {"appid": 60001, "name": "First Game", "developer": "Dev A", "publisher": "Pub A",
		"score_rank": "93", "positive": 5000, "negative": 100, "userscore": 88,
		"owners": "1,000,000 .. 2,000,000", "average_forever": 800, "average_2weeks": 120,
		"median_forever": 500, "median_2weeks": 60, "price": "1999", "initialprice": "2999", "discount": "33", "ccu": 1234}
}`

func newDumpAdapter(t *testing.T) (*Adapter, func()) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api.php", r.URL.Path)
		assert.Equal(t, "all", r.URL.Query().Get("request"))
		fmt.Fprint(w, dumpPayload)
	}))
	cfg := &config.SourceConfig{BaseURL: ts.URL, Timeout: 5}
	return NewSteamSpyAdapter(cfg, testLogger()).(*Adapter), ts.Close
}

func TestFetchCatalogOrdersByAppID(t *testing.T) {
	a, done := newDumpAdapter(t)
	defer done()

	apps, err := a.FetchCatalog(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, int64(60001), apps[0].AppID)
	assert.Equal(t, int64(60002), apps[1].AppID)
}

func TestFetchCatalogFailureIsFatal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	a := NewSteamSpyAdapter(&config.SourceConfig{BaseURL: ts.URL, Timeout: 5}, testLogger())
	_, err := a.FetchCatalog(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestEnrichAppsDropsUnknown(t *testing.T) {
	a, done := newDumpAdapter(t)
	defer done()

	_, err := a.FetchCatalog(context.Background(), "")
	require.NoError(t, err)

	raw := a.EnrichApps(context.Background(), []model.CatalogApp{
		{AppID: 60001, Name: "First Game"},
		{AppID: 77777, Name: "Not In Dump"},
	})

	require.Len(t, raw, 1)
	assert.Equal(t, int64(60001), raw[0].AppID)
}

func TestConvertToDBModelStatistics(t *testing.T) {
	a, done := newDumpAdapter(t)
	defer done()

	_, err := a.FetchCatalog(context.Background(), "")
	require.NoError(t, err)

	raw := a.EnrichApps(context.Background(), []model.CatalogApp{
		{AppID: 60001, Name: "First Game"},
		{AppID: 60002, Name: "Second Game"},
	})
	games, columns, err := a.ConvertToDBModel(raw)
	require.NoError(t, err)
	require.Len(t, games, 2)

	first := games[0]
	assert.Equal(t, "First Game", first.Title)
	require.NotNil(t, first.Owners)
	assert.Equal(t, "1,000,000 .. 2,000,000", *first.Owners)
	require.NotNil(t, first.Price)
	assert.InDelta(t, 19.99, *first.Price, 0.001)
	assert.False(t, first.IsFree)
	require.NotNil(t, first.ScoreRank)
	assert.Equal(t, 93, *first.ScoreRank)
	require.NotNil(t, first.Positive)
	assert.Equal(t, int64(5000), *first.Positive)

	second := games[1]
	require.NotNil(t, second.Price)
	assert.Equal(t, 0.0, *second.Price)
	assert.True(t, second.IsFree)
	assert.Nil(t, second.ScoreRank) // unranked arrives as ""

	// the aggregator never touches storefront-owned columns
	assert.Contains(t, columns, "owners")
	assert.NotContains(t, columns, "has_dlc")
	assert.NotContains(t, columns, "description")
}
