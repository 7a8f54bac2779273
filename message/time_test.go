package message

import (
	"testing"
	"time"
)

func TestToFarcasterTime(t *testing.T) {
	cases := []struct {
		ms   int64
		want int64
	}{
		{FarcasterEpoch, 0},
		{1691407877000, 81948677},
		{1691407877999, 81948677},
		{FarcasterEpoch - 1, -1},
		{FarcasterEpoch - 1000, -1},
		{FarcasterEpoch - 1001, -2},
	}
	for _, tc := range cases {
		got, err := ToFarcasterTime(tc.ms)
		if err != nil {
			t.Fatalf("ToFarcasterTime(%d): %v", tc.ms, err)
		}
		if got != tc.want {
			t.Fatalf("ToFarcasterTime(%d) = %d, want %d", tc.ms, got, tc.want)
		}
	}
}

func TestFromFarcasterTime(t *testing.T) {
	got, err := FromFarcasterTime(81948677)
	if err != nil {
		t.Fatalf("FromFarcasterTime: %v", err)
	}
	if got != 1691407877000 {
		t.Fatalf("FromFarcasterTime = %d", got)
	}
	back, err := ToFarcasterTime(got)
	if err != nil || back != 81948677 {
		t.Fatalf("round trip = %d, %v", back, err)
	}
}

func TestFarcasterTime_NegativeMillisFloor(t *testing.T) {
	cases := []struct {
		ms   int64
		want int64
	}{
		{-1, -1000},
		{-999, -1000},
		{-1000, -1000},
		{-1001, -2000},
		{FarcasterEpoch - 1, FarcasterEpoch - 1000},
	}
	for _, tc := range cases {
		pt, err := ToFarcasterTime(tc.ms)
		if err != nil {
			t.Fatalf("ToFarcasterTime(%d): %v", tc.ms, err)
		}
		back, err := FromFarcasterTime(pt)
		if err != nil {
			t.Fatalf("FromFarcasterTime(%d): %v", pt, err)
		}
		if back != tc.want {
			t.Fatalf("round trip of %d = %d, want %d", tc.ms, back, tc.want)
		}
	}
}

func TestFarcasterTime_OutOfRange(t *testing.T) {
	_, err := ToFarcasterTime(1 << 62)
	requireKind(t, err, KindTimestampRange, "HUB-TIME-002")

	_, err = ToFarcasterTime(-(1 << 62))
	requireKind(t, err, KindTimestampRange, "HUB-TIME-002")

	_, err = FromFarcasterTime(1 << 50)
	requireKind(t, err, KindTimestampRange, "HUB-TIME-003")
}

func TestNow_UsesClock(t *testing.T) {
	withClock(t, time.UnixMilli(FarcasterEpoch+42_500))
	got, err := Now()
	if err != nil {
		t.Fatalf("Now: %v", err)
	}
	if got != 42 {
		t.Fatalf("Now = %d, want 42", got)
	}
}

func TestNow_Unavailable(t *testing.T) {
	withClock(t, time.Date(10000, time.January, 1, 0, 0, 0, 0, time.UTC))
	_, err := Now()
	requireKind(t, err, KindTimestampUnavailable, "HUB-TIME-001")
}
