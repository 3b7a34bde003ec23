package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()
	cfg.normalize()

	if cfg.Server.URL != "http://localhost:8000" {
		t.Errorf("Server.URL = %q, want http://localhost:8000", cfg.Server.URL)
	}
	if cfg.Server.MediaURL != cfg.Server.URL {
		t.Errorf("Server.MediaURL = %q, want it to default to Server.URL", cfg.Server.MediaURL)
	}
	if cfg.Generate.PollInterval != time.Second {
		t.Errorf("Generate.PollInterval = %v, want 1s", cfg.Generate.PollInterval)
	}
	if cfg.Playback.Volume != 0.7 {
		t.Errorf("Playback.Volume = %v, want 0.7", cfg.Playback.Volume)
	}
}

func TestNormalize_TrimsTrailingSlash(t *testing.T) {
	cfg := defaults()
	cfg.Server.URL = "http://museed.example/"
	cfg.Server.MediaURL = "http://media.example/"
	cfg.normalize()

	if cfg.Server.URL != "http://museed.example" {
		t.Errorf("Server.URL = %q, want trailing slash removed", cfg.Server.URL)
	}
	if cfg.Server.MediaURL != "http://media.example" {
		t.Errorf("Server.MediaURL = %q, want trailing slash removed", cfg.Server.MediaURL)
	}
}

func TestNormalize_ClampsVolume(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"negative clamps to zero", -0.5, 0},
		{"above one clamps to one", 1.5, 1},
		{"in range unchanged", 0.4, 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.Playback.Volume = tt.input
			cfg.normalize()
			if cfg.Playback.Volume != tt.want {
				t.Errorf("Playback.Volume = %v, want %v", cfg.Playback.Volume, tt.want)
			}
		})
	}
}

func TestNormalize_PollingBounds(t *testing.T) {
	cfg := defaults()
	cfg.Generate.PollInterval = 0
	cfg.Generate.MaxAttempts = -1
	cfg.Generate.Timeout = 0
	cfg.normalize()

	if cfg.Generate.PollInterval != time.Second {
		t.Errorf("PollInterval = %v, want fallback 1s", cfg.Generate.PollInterval)
	}
	if cfg.Generate.MaxAttempts != 300 {
		t.Errorf("MaxAttempts = %d, want fallback 300", cfg.Generate.MaxAttempts)
	}
	if cfg.Generate.Timeout != 10*time.Minute {
		t.Errorf("Timeout = %v, want fallback 10m", cfg.Generate.Timeout)
	}
}
