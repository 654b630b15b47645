// Package server implements the HTTP API for flow management
//
// The server authenticates callers, enforces per-operation permissions,
// delegates persistence to the flow service, and streams flow lifecycle
// events to WebSocket subscribers
package server
