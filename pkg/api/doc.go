// Package api defines the core data types for the flow service
//
// This package contains all the shared types used across the service,
// including flow and version definitions, operation requests, principals,
// permissions, events, and HTTP messages
package api
