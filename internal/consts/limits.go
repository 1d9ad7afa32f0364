package consts

import "time"

// Buffer sizes for various operations
const (
	// BufferSize1KB is 1 kilobyte
	BufferSize1KB = 1024
	// BufferSize64KB is 64 kilobytes
	BufferSize64KB = 64 * 1024
)

// Expression limits
const (
	// MaxExpressionBytes is the longest expression accepted from a batch line,
	// an HTTP request body or a WebSocket frame
	MaxExpressionBytes = BufferSize64KB
	// MaxRequestBytes bounds a JSON request body
	MaxRequestBytes = MaxExpressionBytes + BufferSize1KB
)

// Batch defaults
const (
	// DefaultBatchWorkers is the number of lines evaluated concurrently
	DefaultBatchWorkers = 4
	// WatchDebounce coalesces bursts of file system events
	WatchDebounce = 100 * time.Millisecond
)

// History defaults
const (
	// DefaultHistoryLimit is the number of entries loaded into the prompt
	DefaultHistoryLimit = 500
)

// Server defaults
const (
	// DefaultServerAddr is the listen address of the HTTP server
	DefaultServerAddr = "localhost:8937"
	// DefaultMaxConnections bounds simultaneously accepted connections
	DefaultMaxConnections = 256
	// DefaultReadTimeout is the HTTP read timeout
	DefaultReadTimeout = 10 * time.Second
	// DefaultWriteTimeout is the HTTP write timeout
	DefaultWriteTimeout = 10 * time.Second
	// ShutdownTimeout bounds graceful server shutdown
	ShutdownTimeout = 5 * time.Second
)
