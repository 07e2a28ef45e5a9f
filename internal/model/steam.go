package model

// CatalogApp is one (appid, name) pair from an upstream catalog listing.
type CatalogApp struct {
	AppID int64  `json:"appid"`
	Name  string `json:"name"`
}

// RawAppDetail wraps one enriched catalog entry in a source-independent
// envelope. Data holds the source's native payload (*StoreAppDetail or
// *SteamSpyAppEntry).
type RawAppDetail struct {
	Source string      // source name (Steam/SteamSpy)
	AppID  int64       // Steam app ID
	Name   string      // catalog name, fallback title
	Data   interface{} // source-native detail payload
}

// SteamAppListResponse is the GetAppList/v2 response shape.
type SteamAppListResponse struct {
	AppList struct {
		Apps []CatalogApp `json:"apps"`
	} `json:"applist"`
}

// StoreDetailEnvelope is one entry of the appdetails response, which is a map
// keyed by the requested app ID.
type StoreDetailEnvelope struct {
	Success bool            `json:"success"`
	Data    *StoreAppDetail `json:"data"`
}

// StoreAppDetail is the storefront metadata for a single app.
type StoreAppDetail struct {
	Type               string              `json:"type"` // game/dlc/demo/...
	Name               string              `json:"name"`
	SteamAppID         int64               `json:"steam_appid"`
	IsFree             bool                `json:"is_free"`
	DLC                []int64             `json:"dlc"`
	ShortDescription   string              `json:"short_description"`
	SupportedLanguages string              `json:"supported_languages"`
	HeaderImage        string              `json:"header_image"`
	Website            string              `json:"website"`
	Developers         []string            `json:"developers"`
	Publishers         []string            `json:"publishers"`
	PriceOverview      *StorePriceOverview `json:"price_overview"`
	Categories         []StoreCategory     `json:"categories"`
	Genres             []StoreGenre        `json:"genres"`
	Screenshots        []StoreScreenshot   `json:"screenshots"`
	Metacritic         *StoreMetacritic    `json:"metacritic"`
	Achievements       *StoreAchievements  `json:"achievements"`
	ReleaseDate        StoreReleaseDate    `json:"release_date"`
}

type StorePriceOverview struct {
	Currency        string `json:"currency"`
	Initial         int64  `json:"initial"` // cents
	Final           int64  `json:"final"`   // cents
	DiscountPercent int    `json:"discount_percent"`
	FinalFormatted  string `json:"final_formatted"` // e.g. "$19.99"
}

type StoreCategory struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type StoreGenre struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type StoreScreenshot struct {
	ID            int    `json:"id"`
	PathThumbnail string `json:"path_thumbnail"`
	PathFull      string `json:"path_full"`
}

type StoreMetacritic struct {
	Score int    `json:"score"`
	URL   string `json:"url"`
}

type StoreAchievements struct {
	Total int `json:"total"`
}

type StoreReleaseDate struct {
	ComingSoon bool   `json:"coming_soon"`
	Date       string `json:"date"` // e.g. "12 Aug, 2024"
}
