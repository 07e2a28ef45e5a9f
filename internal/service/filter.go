package service

import (
	"strings"

	"CrackSync/internal/model"
)

// CatalogFilter screens raw catalog entries before enrichment. Pure policy,
// no side effects: every knob comes from configuration.
type CatalogFilter struct {
	MinAppID         int64    // entries at or below this ID are tools/test apps
	MinNameLength    int      // names must be longer than this
	ExcludedKeywords []string // names containing any of these are skipped
	SearchTerm       string   // optional: keep only names containing this (case-insensitive)
	Limit            int      // truncate the surviving entries; <=0 keeps all
}

// FilterCatalog keeps entries likely to be real purchasable games and
// truncates to the limit.
func FilterCatalog(apps []model.CatalogApp, f CatalogFilter) []model.CatalogApp {
	search := strings.ToLower(f.SearchTerm)

	kept := make([]model.CatalogApp, 0, len(apps))
	for _, app := range apps {
		if app.AppID <= f.MinAppID {
			continue
		}
		if len(app.Name) <= f.MinNameLength {
			continue
		}
		if containsAny(app.Name, f.ExcludedKeywords) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(app.Name), search) {
			continue
		}
		kept = append(kept, app)
		if f.Limit > 0 && len(kept) >= f.Limit {
			break
		}
	}
	return kept
}

func containsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}
