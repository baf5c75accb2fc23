package reconcile

// Config holds tunables for the reconciliation service.
type Config struct {
	// CacheTTLSeconds is the time-to-live for cached diff-preview snapshots.
	// Zero disables caching; the merge path always loads fresh regardless.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"0"`
	// MaxAttempts bounds full pipeline retries after a write failure.
	MaxAttempts int `mapstructure:"max_attempts" default:"2"`
}
