package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseExpenseDate(t *testing.T) {
	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	now := func() time.Time { return fixed }

	cases := []struct {
		name string
		in   string
		want time.Time
	}{
		{"utc", "2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{"offset", "2024-03-01T10:00:00-05:00", time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)},
		{"fraction", "2024-03-01T10:00:00.123Z", time.Date(2024, 3, 1, 10, 0, 0, 123000000, time.UTC)},
		{"no zone", "2024-03-01T10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)},
		{"space", "2024-03-01 10:00:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)},
		{"date only", "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)},
		{"datetime-local", "2024-03-01T10:00", time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local)},
		{"garbage", "ayer por la tarde", fixed},
		{"empty", "", fixed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseExpenseDate(tc.in, now)
			assert.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}
