package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	// MONGO_URI is empty by default: the assistant runs on the in-memory
	// repositories unless a Mongo deployment is configured.
	DefaultMongoURI          = ""
	DefaultMongoDatabaseName = "jusbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultDatetimeFallback     = false
	DefaultDatetimeFallbackSlot = "09:00 AM"
	DefaultSeedSampleServices   = true

	DefaultKafkaEnabled       = false
	DefaultBookingEventsTopic = "booking-events"

	DefaultPaginationLimit = 100
)
