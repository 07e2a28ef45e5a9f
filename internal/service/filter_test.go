package service

import (
	"testing"

	"CrackSync/internal/model"

	"github.com/stretchr/testify/assert"
)

func defaultFilter() CatalogFilter {
	return CatalogFilter{
		MinAppID:         50000,
		MinNameLength:    2,
		ExcludedKeywords: []string{"Demo", "SDK", "Dedicated Server", "Beta"},
	}
}

func TestFilterCatalogDefaults(t *testing.T) {
	apps := []model.CatalogApp{
		{AppID: 5000, Name: "Real Game"},  // below the ID floor
		{AppID: 60000, Name: "Tool Demo"}, // excluded keyword
		{AppID: 70000, Name: "X"},         // name too short
		{AppID: 99999, Name: "Real Game"},
	}

	kept := FilterCatalog(apps, defaultFilter())

	assert.Len(t, kept, 1)
	assert.Equal(t, int64(99999), kept[0].AppID)
	assert.Equal(t, "Real Game", kept[0].Name)
}

func TestFilterCatalogExcludedKeywords(t *testing.T) {
	apps := []model.CatalogApp{
		{AppID: 60001, Name: "Thing SDK"},
		{AppID: 60002, Name: "Shooter Dedicated Server"},
		{AppID: 60003, Name: "Shooter Beta"},
		{AppID: 60004, Name: "Shooter"},
	}

	kept := FilterCatalog(apps, defaultFilter())

	assert.Len(t, kept, 1)
	assert.Equal(t, "Shooter", kept[0].Name)
}

func TestFilterCatalogLimitTruncates(t *testing.T) {
	apps := []model.CatalogApp{
		{AppID: 60001, Name: "Game One"},
		{AppID: 60002, Name: "Game Two"},
		{AppID: 60003, Name: "Game Three"},
	}

	f := defaultFilter()
	f.Limit = 2
	kept := FilterCatalog(apps, f)

	assert.Len(t, kept, 2)
	assert.Equal(t, int64(60001), kept[0].AppID)
	assert.Equal(t, int64(60002), kept[1].AppID)
}

func TestFilterCatalogSearchTerm(t *testing.T) {
	apps := []model.CatalogApp{
		{AppID: 60001, Name: "Portal Stories"},
		{AppID: 60002, Name: "Racing Game"},
		{AppID: 60003, Name: "PORTAL Reloaded"},
	}

	f := defaultFilter()
	f.SearchTerm = "portal"
	kept := FilterCatalog(apps, f)

	assert.Len(t, kept, 2)
	assert.Equal(t, "Portal Stories", kept[0].Name)
	assert.Equal(t, "PORTAL Reloaded", kept[1].Name)
}

func TestFilterCatalogDeterministic(t *testing.T) {
	apps := []model.CatalogApp{
		{AppID: 60001, Name: "Game One"},
		{AppID: 50, Name: "Steamworks"},
		{AppID: 60002, Name: "Game Two"},
	}

	first := FilterCatalog(apps, defaultFilter())
	second := FilterCatalog(apps, defaultFilter())

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}
