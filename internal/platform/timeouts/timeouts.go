// Package timeouts defines shared timeout constants used across the battle
// service. Centralizing them keeps HTTP and publish deadlines from drifting
// between call sites.
package timeouts

import "time"

// ReadHeader limits how long the HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long the HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// Publish bounds a single best-effort notification publish attempt. The
// mutation has already committed by the time a publish runs, so the attempt
// must stay short.
const Publish = 2 * time.Second

// WatcherWrite caps a single websocket write to a battle watcher.
const WatcherWrite = 5 * time.Second
