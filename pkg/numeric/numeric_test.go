package numeric

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{81.818181, 1, 81.8},
		{88.888888, 1, 88.9},
		{2.2499, 2, 2.25},
		{-0.7000000000000001, 1, -0.7},
		{10, 1, 10},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
	if !math.IsInf(Round(math.Inf(1), 1), 1) {
		t.Error("expected +Inf to pass through")
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(1, 3); got != 33.3 {
		t.Errorf("expected 33.3, got %v", got)
	}
	if got := Percent(5, 0); got != 0 {
		t.Errorf("expected 0 for empty whole, got %v", got)
	}
}
