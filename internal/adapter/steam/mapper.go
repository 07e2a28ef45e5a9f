package steam

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"CrackSync/internal/model"

	"gorm.io/datatypes"
)

// Steam trading cards category ID on the storefront.
const tradingCardsCategoryID = 29

// storeSyncColumns are the columns the storefront sync owns. On conflict the
// upsert assigns exactly these, so SteamSpy statistics survive a storefront
// re-sync and vice versa.
var storeSyncColumns = []string{
	"title", "developer", "publisher", "genre", "tags", "description",
	"release_date", "price", "currency", "is_free", "header_image", "website",
	"metacritic_score", "metacritic_url", "screenshots_count", "achievements",
	"dlc_count", "has_achievements", "has_dlc", "has_trading_cards",
	"early_access", "languages", "last_synced_at", "updated_at",
}

// mapStoreDetail builds a game row from one storefront detail payload.
// Missing optional fields map to nil, never to fabricated values; every
// derived flag is computed here, not left for later.
func mapStoreDetail(r *model.RawAppDetail, d *model.StoreAppDetail, syncedAt time.Time) *model.Game {
	title := d.Name
	if title == "" {
		title = r.Name // catalog name as last resort
	}

	price, currency := mapPrice(d.PriceOverview)

	return &model.Game{
		SteamID:     r.AppID,
		Title:       title,
		Developer:   joinList(d.Developers),
		Publisher:   joinList(d.Publishers),
		Genre:       joinGenres(d.Genres),
		Tags:        categoryTags(d.Categories),
		Description: optionalString(d.ShortDescription),
		ReleaseDate: mapReleaseDate(d.ReleaseDate),

		Price:    price,
		Currency: currency,
		IsFree:   d.IsFree,

		HeaderImage:     optionalString(d.HeaderImage),
		Website:         optionalString(d.Website),
		MetacriticScore: metacriticScore(d.Metacritic),
		MetacriticURL:   metacriticURL(d.Metacritic),

		ScreenshotsCount: len(d.Screenshots),
		Achievements:     achievementTotal(d.Achievements),
		DLCCount:         len(d.DLC),
		HasAchievements:  achievementTotal(d.Achievements) > 0,
		HasDLC:           len(d.DLC) > 0,
		HasTradingCards:  hasCategory(d.Categories, tradingCardsCategoryID),
		EarlyAccess:      hasGenre(d.Genres, "Early Access"),
		Languages:        languageList(d.SupportedLanguages),

		LastSyncedAt: &syncedAt,
	}
}

// optionalString returns nil for an empty upstream value.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// joinList joins a list field into a comma-separated column value, nil when
// the list is empty.
func joinList(items []string) *string {
	if len(items) == 0 {
		return nil
	}
	joined := strings.Join(items, ", ")
	return &joined
}

func joinGenres(genres []model.StoreGenre) *string {
	if len(genres) == 0 {
		return nil
	}
	names := make([]string, 0, len(genres))
	for _, g := range genres {
		names = append(names, g.Description)
	}
	joined := strings.Join(names, ", ")
	return &joined
}

func categoryTags(categories []model.StoreCategory) datatypes.JSON {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Description)
	}
	return stringArrayJSON(names)
}

func languageList(supported string) datatypes.JSON {
	if supported == "" {
		return stringArrayJSON(nil)
	}
	return stringArrayJSON([]string{supported})
}

func stringArrayJSON(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return raw
}

// mapPrice resolves the price in layers: parse the formatted string first,
// fall back to the cent amount, nil when no price info exists at all. A free
// game with an explicit zero price stays 0, it is not treated as absent.
func mapPrice(p *model.StorePriceOverview) (*float64, *string) {
	if p == nil {
		return nil, nil
	}
	currency := optionalString(p.Currency)
	if v, ok := parseFormattedPrice(p.FinalFormatted); ok {
		return &v, currency
	}
	v := float64(p.Final) / 100
	return &v, currency
}

// parseFormattedPrice strips currency symbols from strings like "$19.99" or
// "19,99€" and parses the remainder.
func parseFormattedPrice(formatted string) (float64, bool) {
	var b strings.Builder
	for _, r := range formatted {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.':
			b.WriteRune('.')
		case r == ',':
			// decimal comma in some locales
			b.WriteRune('.')
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func mapReleaseDate(rd model.StoreReleaseDate) *time.Time {
	if rd.ComingSoon || rd.Date == "" {
		return nil
	}
	// storefront uses a couple of date spellings depending on locale
	layouts := []string{"2 Jan, 2006", "Jan 2, 2006", "2006-01-02", "Jan 2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, rd.Date); err == nil {
			return &t
		}
	}
	return nil
}

func metacriticScore(m *model.StoreMetacritic) *int {
	if m == nil {
		return nil
	}
	score := m.Score
	return &score
}

func metacriticURL(m *model.StoreMetacritic) *string {
	if m == nil {
		return nil
	}
	return optionalString(m.URL)
}

func achievementTotal(a *model.StoreAchievements) int {
	if a == nil {
		return 0
	}
	return a.Total
}

func hasCategory(categories []model.StoreCategory, id int) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func hasGenre(genres []model.StoreGenre, name string) bool {
	for _, g := range genres {
		if g.Description == name {
			return true
		}
	}
	return false
}
