package worker

import "time"

// Log messages for challenge purge worker operations
const (
	LogMsgPurgeStarting         = "Challenge purge starting"
	LogMsgPurgeCompleted        = "Challenge purge completed"
	LogMsgPurgeFailed           = "Challenge purge failed"
	LogMsgPurgeWorkerStarted    = "Challenge purge worker started"
	LogMsgPurgeShutdownStarted  = "Shutting down challenge purge worker"
	LogMsgPurgeShutdownComplete = "Challenge purge worker shutdown complete"
	LogMsgPurgeShutdownTimeout  = "Challenge purge worker shutdown timeout, a purge may still be running"
)

// DefaultPurgeInterval is how often expired challenges are swept. Consume
// already removes stale rows it touches; the sweep only catches abandoned
// challenges, so it does not need to be aggressive.
const DefaultPurgeInterval = 5 * time.Minute
