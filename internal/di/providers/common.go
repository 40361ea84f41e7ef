package providers

import "time"

const (
	// shutdownTimeout bounds graceful shutdown of the HTTP server and SSE manager.
	shutdownTimeout = 30 * time.Second
)
