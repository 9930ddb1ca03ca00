package timecode

import (
	"math"
	"testing"
)

func TestFPSFromRate_FamiliarRates(t *testing.T) {
	tests := []struct {
		rate int64
		want float64
	}{
		{10594584, 23.976},
		{10160640, 25},
		{8475667, 29.97},
		{8408400, 30},
		{5080320, 50},
		{4237833, 59.94},
		{4204200, 60},
	}

	for _, tt := range tests {
		got, ok := FPSFromRate(tt.rate)
		if !ok {
			t.Errorf("FPSFromRate(%d) not recognized", tt.rate)
		}
		if got != tt.want {
			t.Errorf("FPSFromRate(%d) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestFPSFromRate_ScaledValue(t *testing.T) {
	// Some project versions store the rate scaled by a power of ten.
	got, ok := FPSFromRate(105945840)
	if !ok {
		t.Fatalf("FPSFromRate(105945840) not recognized")
	}
	if got != 23.976 {
		t.Errorf("FPSFromRate(105945840) = %v, want 23.976", got)
	}
}

func TestFPSFromRate_Unknown(t *testing.T) {
	got, ok := FPSFromRate(12345)
	if ok {
		t.Errorf("FPSFromRate(12345) recognized, want fallback")
	}
	if got != DefaultFPS {
		t.Errorf("FPSFromRate(12345) = %v, want DefaultFPS %v", got, DefaultFPS)
	}
}

func TestSecondsFromTicks(t *testing.T) {
	tests := []struct {
		name          string
		ticks         int64
		ticksPerFrame int64
		fps           float64
		want          float64
	}{
		{"one second at 25fps", 25 * 10160640, 10160640, 25, 1.0},
		{"zero ticks", 0, 10160640, 25, 0},
		{"half second at 30fps", 15 * 8408400, 8408400, 30, 0.5},
		{"zero ticks per frame", 1000, 0, 25, 0},
		{"zero fps", 1000, 10160640, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SecondsFromTicks(tt.ticks, tt.ticksPerFrame, tt.fps)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SecondsFromTicks(%d, %d, %v) = %v, want %v",
					tt.ticks, tt.ticksPerFrame, tt.fps, got, tt.want)
			}
		})
	}
}

func TestFromSeconds(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{59.4, "00:00:59"},
		{59.6, "00:01:00"},
		{3661, "01:01:01"},
		{-5, "-00:00:05"},
	}

	for _, tt := range tests {
		if got := FromSeconds(tt.seconds); got != tt.want {
			t.Errorf("FromSeconds(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestToSeconds(t *testing.T) {
	tests := []struct {
		tc   string
		want float64
	}{
		{"00:00:00", 0},
		{"00:01:30", 90},
		{"01:01:01", 3661},
		{"garbage", 0},
		{"1:2", 0},
	}

	for _, tt := range tests {
		if got := ToSeconds(tt.tc); got != tt.want {
			t.Errorf("ToSeconds(%q) = %v, want %v", tt.tc, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []float64{0, 1, 42, 90, 3599, 3600, 7261} {
		tc := FromSeconds(s)
		if got := ToSeconds(tc); got != s {
			t.Errorf("ToSeconds(FromSeconds(%v)) = %v, want %v", s, got, s)
		}
	}
}

func TestClampMinimumDuration(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
		wantEnd    float64
	}{
		{"short clip stretched", 5.0, 5.2, 6.0},
		{"long clip untouched", 5.0, 12.0, 12.0},
		{"exactly minimum", 5.0, 6.0, 6.0},
		{"late start untouched", 4000.0, 4000.2, 4000.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ClampMinimumDuration(tt.start, tt.end)
			if start != tt.start {
				t.Errorf("start changed: got %v, want %v", start, tt.start)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}
