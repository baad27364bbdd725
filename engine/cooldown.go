package engine

import "time"

// OnCooldown reports whether a move arriving at now falls inside the cooldown
// window after the last accepted move. Pure time comparison; no timers.
// lastMoveMillis of 0 means no move has been accepted yet. A negative elapsed
// time (clock skew between encoding and decoding hosts) never blocks a move.
func OnCooldown(lastMoveMillis int64, now time.Time, period time.Duration) bool {
	if lastMoveMillis == 0 || period <= 0 {
		return false
	}
	elapsed := now.UnixMilli() - lastMoveMillis
	return elapsed >= 0 && elapsed < period.Milliseconds()
}

// CooldownRemaining returns how long the caller must wait before a move will
// be accepted, or 0 if no cooldown is active.
func CooldownRemaining(lastMoveMillis int64, now time.Time, period time.Duration) time.Duration {
	if !OnCooldown(lastMoveMillis, now, period) {
		return 0
	}
	return period - time.Duration(now.UnixMilli()-lastMoveMillis)*time.Millisecond
}
