package service

import (
	"testing"
	"time"
)

func TestParseLogTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "zap ISO8601 with millis",
			input: "2026-08-25T10:30:00.000+0700",
			want:  time.Date(2026, 8, 25, 10, 30, 0, 0, time.FixedZone("", 7*3600)),
		},
		{
			name:  "RFC3339",
			input: "2026-08-25T10:30:00Z",
			want:  time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "garbage keeps zero time",
			input: "yesterday-ish",
			want:  time.Time{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLogTime(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("parseLogTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
