package models

// Settings represents application-wide settings
type Settings struct {
	APIBaseURL      string `json:"api_base_url"`      // base URL of the Flowday API, e.g. "https://api.flowday.app"
	DefaultMainTime string `json:"default_main_time"` // fallback main event time, e.g. "18:00"
	PrepOffsetMin   int    `json:"prep_offset_min"`   // minutes before the main event prep steps default to
	CacheTTLSec     int    `json:"cache_ttl_sec"`     // how long cached API responses stay fresh
	Timezone        string `json:"timezone"`          // IANA timezone name or "Local"
}
