package model

// SteamSpyAppEntry is one entry of the SteamSpy aggregator response, a map
// keyed by app ID. Numeric-looking fields arrive as strings (price is cents,
// score_rank may be empty), and the players_* fields only exist in older API
// revisions, so they stay optional.
type SteamSpyAppEntry struct {
	AppID     int64  `json:"appid"`
	Name      string `json:"name"`
	Developer string `json:"developer"`
	Publisher string `json:"publisher"`
	ScoreRank string `json:"score_rank"` // "" when unranked
	Positive  int64  `json:"positive"`
	Negative  int64  `json:"negative"`
	Userscore int    `json:"userscore"`
	Owners    string `json:"owners"` // bucket, e.g. "1,000,000 .. 2,000,000"

	AverageForever int64 `json:"average_forever"`
	Average2Weeks  int64 `json:"average_2weeks"`
	MedianForever  int64 `json:"median_forever"`
	Median2Weeks   int64 `json:"median_2weeks"`

	PlayersForever         *int64 `json:"players_forever"`
	PlayersForeverVariance *int64 `json:"players_forever_variance"`
	Players2Weeks          *int64 `json:"players_2weeks"`
	Players2WeeksVariance  *int64 `json:"players_2weeks_variance"`
	OwnersVariance         *int64 `json:"owners_variance"`

	Price        string `json:"price"`        // current price in cents
	InitialPrice string `json:"initialprice"` // pre-discount price in cents
	Discount     string `json:"discount"`     // discount percent
	CCU          int64  `json:"ccu"`          // peak concurrent users yesterday
}
