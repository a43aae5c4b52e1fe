package submission

import (
	"fmt"
	"time"
)

// GenerateID returns "<prefix>-<dddddd>" where the digits are the last six decimal
// digits of now in epoch milliseconds. IDs repeat every 1000 seconds and two requests
// in the same millisecond collide; callers only use them for traceability.
func GenerateID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%06d", prefix, now.UnixMilli()%1_000_000)
}
