package model

import (
	"time"

	"gorm.io/datatypes"
)

// Crack status values.
const (
	StatusCracked   = "cracked"
	StatusUncracked = "uncracked"
	StatusDRMFree   = "drm_free"
)

// BaselineDRM is the protection every Steam release carries until curation
// records something more specific.
var BaselineDRM = []string{"Steam"}

// Game is one Steam application. steam_id is the natural key: a sync run
// updates rows in place, it never duplicates them. The storefront sync fills
// the descriptive/commercial columns, the SteamSpy sync fills the
// ownership/player statistics; each leaves the other's columns alone.
type Game struct {
	ID          string         `gorm:"column:id;type:varchar(64);primaryKey;comment:internal UUID"`
	SteamID     int64          `gorm:"column:steam_id;type:bigint;uniqueIndex;not null;comment:Steam app ID"`
	Title       string         `gorm:"column:title;type:varchar(512);not null;comment:game title"`
	Developer   *string        `gorm:"column:developer;type:varchar(512);comment:developers, comma separated"`
	Publisher   *string        `gorm:"column:publisher;type:varchar(512);comment:publishers, comma separated"`
	Genre       *string        `gorm:"column:genre;type:varchar(256);comment:genres, comma separated"`
	Tags        datatypes.JSON `gorm:"column:tags;type:jsonb;comment:storefront category tags"`
	Description *string        `gorm:"column:description;type:text;comment:short description"`
	ReleaseDate *time.Time     `gorm:"column:release_date;type:date;comment:release date"`

	Price    *float64 `gorm:"column:price;type:numeric(10,2);comment:final price, currency units"`
	Currency *string  `gorm:"column:currency;type:varchar(8);comment:price currency code"`
	IsFree   bool     `gorm:"column:is_free;type:boolean;default:false;comment:free to play"`

	HeaderImage     *string `gorm:"column:header_image;type:varchar(512);comment:header image URL"`
	Website         *string `gorm:"column:website;type:varchar(512);comment:official website"`
	MetacriticScore *int    `gorm:"column:metacritic_score;type:int;comment:metacritic score"`
	MetacriticURL   *string `gorm:"column:metacritic_url;type:varchar(512);comment:metacritic page"`

	ScreenshotsCount int            `gorm:"column:screenshots_count;type:int;default:0;comment:screenshot count"`
	Achievements     int            `gorm:"column:achievements;type:int;default:0;comment:achievement count"`
	DLCCount         int            `gorm:"column:dlc_count;type:int;default:0;comment:DLC count"`
	HasAchievements  bool           `gorm:"column:has_achievements;type:boolean;default:false;comment:has achievements"`
	HasDLC           bool           `gorm:"column:has_dlc;type:boolean;default:false;comment:has DLC"`
	HasTradingCards  bool           `gorm:"column:has_trading_cards;type:boolean;default:false;comment:has trading cards"`
	EarlyAccess      bool           `gorm:"column:early_access;type:boolean;default:false;comment:early access"`
	Languages        datatypes.JSON `gorm:"column:languages;type:jsonb;comment:supported languages"`

	// Aggregator (SteamSpy) statistics. Absent unless that sync mode ran.
	Owners                 *string `gorm:"column:owners;type:varchar(64);comment:owner count bucket"`
	OwnersVariance         *int64  `gorm:"column:owners_variance;type:bigint;comment:owner count variance"`
	PlayersForever         *int64  `gorm:"column:players_forever;type:bigint;comment:players since release"`
	PlayersForeverVariance *int64  `gorm:"column:players_forever_variance;type:bigint;comment:players since release variance"`
	Players2Weeks          *int64  `gorm:"column:players_2weeks;type:bigint;comment:players in last two weeks"`
	Players2WeeksVariance  *int64  `gorm:"column:players_2weeks_variance;type:bigint;comment:players in last two weeks variance"`
	AverageForever         *int64  `gorm:"column:average_forever;type:bigint;comment:average playtime since release (minutes)"`
	Average2Weeks          *int64  `gorm:"column:average_2weeks;type:bigint;comment:average playtime last two weeks (minutes)"`
	MedianForever          *int64  `gorm:"column:median_forever;type:bigint;comment:median playtime since release (minutes)"`
	Median2Weeks           *int64  `gorm:"column:median_2weeks;type:bigint;comment:median playtime last two weeks (minutes)"`
	Positive               *int64  `gorm:"column:positive;type:bigint;comment:positive reviews"`
	Negative               *int64  `gorm:"column:negative;type:bigint;comment:negative reviews"`
	Userscore              *int    `gorm:"column:userscore;type:int;comment:user score"`
	ScoreRank              *int    `gorm:"column:score_rank;type:int;comment:score rank"`

	LastSyncedAt *time.Time `gorm:"column:last_synced_at;type:timestamp;comment:last sync time"`
	CreatedAt    time.Time  `gorm:"column:created_at;type:timestamp;autoCreateTime;comment:row creation time"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;type:timestamp;autoUpdateTime;comment:row update time"`

	CrackStatus *CrackStatus `gorm:"foreignKey:GameID;references:ID"`
}

// CrackStatus tracks DRM-bypass state for one game. Seeded exactly once per
// game at first sync; afterwards only manual curation touches it, the sync
// pipeline never updates or deletes these rows.
type CrackStatus struct {
	ID                 string         `gorm:"column:id;type:varchar(64);primaryKey;comment:internal UUID"`
	GameID             string         `gorm:"column:game_id;type:varchar(64);uniqueIndex;not null;comment:owning game UUID"`
	Status             string         `gorm:"column:status;type:varchar(16);not null;comment:cracked/uncracked/drm_free"`
	CrackDate          *time.Time     `gorm:"column:crack_date;type:date;comment:date the crack appeared"`
	CrackedBy          *string        `gorm:"column:cracked_by;type:varchar(128);comment:group or person credited"`
	CrackQuality       *string        `gorm:"column:crack_quality;type:varchar(32);comment:crack quality rating"`
	ProtectionStrength *string        `gorm:"column:protection_strength;type:varchar(32);comment:protection strength rating"`
	SourceURL          *string        `gorm:"column:source_url;type:varchar(512);comment:curation source link"`
	DRMProtection      datatypes.JSON `gorm:"column:drm_protection;type:jsonb;comment:active DRM layers"`
	Notes              *string        `gorm:"column:notes;type:text;comment:curation notes"`
	Verified           bool           `gorm:"column:verified;type:boolean;default:false;comment:manually verified"`
	CreatedAt          time.Time      `gorm:"column:created_at;type:timestamp;autoCreateTime;comment:row creation time"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;type:timestamp;autoUpdateTime;comment:row update time"`
}

func (Game) TableName() string        { return "games" }
func (CrackStatus) TableName() string { return "crack_status" }
