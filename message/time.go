package message

import (
	"fmt"
	"time"
)

// FarcasterEpoch is the protocol epoch, 2021-01-01T00:00:00Z, in Unix milliseconds.
// Protocol time counts whole seconds from this instant.
const FarcasterEpoch int64 = 1609459200000

// clock is replaced in tests.
var clock = time.Now

func farcasterEpoch() time.Time {
	return time.UnixMilli(FarcasterEpoch).UTC()
}

// Calendar range accepted by the converters: years 1 through 9999.
func calendarBounds() (lo, hi time.Time) {
	lo = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	hi = time.Date(9999, time.December, 31, 23, 59, 59, 999_999_999, time.UTC)
	return lo, hi
}

// Now returns the current protocol time.
func Now() (int64, error) {
	t, err := ToFarcasterTime(clock().UnixMilli())
	if err != nil {
		return 0, wrapError(KindTimestampUnavailable, "HUB-TIME-001", "current time not representable as protocol time", err)
	}
	return t, nil
}

// ToFarcasterTime converts Unix milliseconds to protocol time. Sub-second
// precision is discarded by flooring, not truncation: FarcasterEpoch-1 maps
// to -1, and Unix -1ms round-trips through FromFarcasterTime to -1000.
func ToFarcasterTime(unixMillis int64) (int64, error) {
	lo, hi := calendarBounds()
	if unixMillis < lo.UnixMilli() || unixMillis > hi.UnixMilli() {
		return 0, newError(KindTimestampRange, "HUB-TIME-002", fmt.Sprintf("unix time %dms outside calendar range", unixMillis))
	}
	return time.UnixMilli(unixMillis).Unix() - farcasterEpoch().Unix(), nil
}

// FromFarcasterTime converts protocol time back to Unix milliseconds.
func FromFarcasterTime(t int64) (int64, error) {
	lo, hi := calendarBounds()
	epoch := farcasterEpoch().Unix()
	if t < lo.Unix()-epoch || t > hi.Unix()-epoch {
		return 0, newError(KindTimestampRange, "HUB-TIME-003", fmt.Sprintf("protocol time %d outside calendar range", t))
	}
	return time.Unix(epoch+t, 0).UnixMilli(), nil
}
