package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

// TestParseHumanDuration covers Go syntax and the loose "<number> <unit>" form.
func TestParseHumanDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Duration
		expectError bool
	}{
		{
			name:     "go syntax seconds",
			input:    "90s",
			expected: 90 * time.Second,
		},
		{
			name:     "go syntax compound",
			input:    "2h30m",
			expected: 2*time.Hour + 30*time.Minute,
		},
		{
			name:     "loose plural minutes (mixed case)",
			input:    "2 MiNuTeS",
			expected: 2 * time.Minute,
		},
		{
			name:     "loose singular hour",
			input:    "1 hour",
			expected: time.Hour,
		},
		{
			name:     "loose fractional days",
			input:    "1.5 days",
			expected: 36 * time.Hour,
		},
		{
			name:     "loose abbreviated unit",
			input:    "30 sec",
			expected: 30 * time.Second,
		},
		{
			name:        "invalid empty",
			input:       "",
			expectError: true,
		},
		{
			name:        "invalid negative go syntax",
			input:       "-5m",
			expectError: true,
		},
		{
			name:        "invalid bad unit (decades)",
			input:       "4 decades",
			expectError: true,
		},
		{
			name:        "invalid non-numeric value",
			input:       "one hour",
			expectError: true,
		},
		{
			name:        "invalid too many fields",
			input:       "1 hour 30 minutes",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseHumanDuration(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, -1, DaysSince(time.Time{}, fixedNow))
	assert.Equal(t, 0, DaysSince(fixedNow.Add(-12*time.Hour), fixedNow))
	assert.Equal(t, 7, DaysSince(fixedNow.AddDate(0, 0, -7), fixedNow))
	assert.Equal(t, 90, DaysSince(fixedNow.AddDate(0, 0, -90), fixedNow))
}
