package config

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// OverviewKey returns the cache key for the aggregated attendance overview.
func (r *CacheKeyStruct) OverviewKey() string {
	return "overview:summary"
}

// SubjectEventsChannel returns the Redis PubSub channel for subject change events.
func (r *CacheKeyStruct) SubjectEventsChannel() string {
	return "subjects:events"
}

var CacheKey = NewCacheKeyStruct()
