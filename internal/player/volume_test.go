package player

import (
	"math"
	"testing"
)

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		want  float64
	}{
		{"full volume is unity", 1.0, 0},
		{"half volume is -1", 0.5, -1},
		{"quarter volume is -2", 0.25, -2},
		{"zero is silent floor", 0, -10},
		{"negative clamps to floor", -0.3, -10},
		{"above one clamps to unity", 1.7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := levelToVolume(tt.level)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("levelToVolume(%v) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}
