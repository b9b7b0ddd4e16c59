package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// Budget returns interval minus spent, floored at zero. Used to compute the
// remaining low-power duration once a cycle's active time is known.
func Budget(interval, spent time.Duration) time.Duration {
	if spent >= interval {
		return 0
	}
	return interval - spent
}
