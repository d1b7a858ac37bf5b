package utilities

import "time"

// TimeNow is the single clock used across the service, always UTC.
func TimeNow() time.Time {
	return time.Now().UTC()
}
