package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"month year", "September 2025", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{"short month year", "Mar 2024", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{"abbreviation with dot", "Sept. 2025", time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)},
		{"hyphenated", "oct-2023", time.Date(2023, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"iso date", "2024-03-15", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"long date", "March 15, 2024", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"empty", "", Epoch},
		{"whitespace", "   ", Epoch},
		{"garbage", "garbage", Epoch},
		{"month only", "March", Epoch},
		{"bad year", "March 20x4", Epoch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(Parse(tt.in)), "Parse(%q) = %v, want %v", tt.in, Parse(tt.in), tt.want)
		})
	}
}

func TestParse_ISORoundTrip(t *testing.T) {
	instant := time.Date(2023, time.July, 4, 18, 30, 15, 123000000, time.UTC)

	assert.True(t, instant.Equal(Parse(instant.Format(time.RFC3339Nano))))
	assert.True(t, instant.Truncate(time.Second).Equal(Parse(instant.Format(time.RFC3339))))
}

func TestParse_IsUTC(t *testing.T) {
	got := Parse("2024-01-01T10:00:00+02:00")
	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 8, got.Hour())
}

func TestHasMonthToken(t *testing.T) {
	assert.True(t, HasMonthToken("March 2020"))
	assert.True(t, HasMonthToken("read in DEC"))
	assert.False(t, HasMonthToken(""))
	assert.False(t, HasMonthToken("2020"))
	assert.False(t, HasMonthToken("?"))
}
