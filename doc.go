// Package activepieces provides identity constants shared across the flow
// management service
package activepieces

const (
	// Name identifies the service in logs and health responses
	Name = "activepieces"

	// Version is the service release version
	Version = "0.4.0"
)
