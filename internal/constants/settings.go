package constants

const (
	SettingAPIBaseURL      = "api_base_url"
	SettingDefaultMainTime = "default_main_time"
	SettingPrepOffsetMin   = "prep_offset_min"
	SettingCacheTTLSec     = "cache_ttl_sec"
	SettingTimezone        = "timezone"

	// Default Settings Values
	DefaultCacheTTLSec = 300
	DefaultTimezone    = "Local" // Use system local timezone by default
)
