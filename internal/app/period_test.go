package app

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		name      string
		instant   time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "mid-month instant",
			instant:   time.Date(2024, 3, 15, 13, 45, 30, 0, time.UTC),
			wantStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "leap year february",
			instant:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "non-leap february",
			instant:   time.Date(2023, 2, 28, 12, 0, 0, 0, time.UTC),
			wantStart: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "december rolls into next year",
			instant:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			wantStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:      "non-utc instant normalized to utc",
			instant:   time.Date(2024, 1, 1, 0, 30, 0, 0, time.FixedZone("UTC+2", 2*3600)),
			wantStart: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := MonthRange(tt.instant)
			if !start.Equal(tt.wantStart) {
				t.Fatalf("expected start %s, got %s", tt.wantStart, start)
			}
			if !end.Equal(tt.wantEnd) {
				t.Fatalf("expected end %s, got %s", tt.wantEnd, end)
			}
		})
	}
}
