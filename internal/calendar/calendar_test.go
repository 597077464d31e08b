// internal/calendar/calendar_test.go
package calendar

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_BuildsGoogleCalendarURL(t *testing.T) {
	link := Link("Keynote", "2025-06-01T14:00:00Z", "2025-06-01T15:00:00Z", "Hall A", "Opening keynote")

	u, err := url.Parse(link)
	require.NoError(t, err)

	assert.Equal(t, "www.google.com", u.Host)
	assert.Equal(t, "/calendar/render", u.Path)

	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Keynote", q.Get("text"))
	assert.Equal(t, "20250601T140000Z/20250601T150000Z", q.Get("dates"))
	assert.Equal(t, "Hall A", q.Get("location"))
	assert.Equal(t, "Opening keynote", q.Get("details"))
}

func TestLink_NormalizesOffsetsToUTC(t *testing.T) {
	link := Link("Session", "2025-06-01T16:00:00+02:00", "2025-06-01T17:30:00+02:00", "", "")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "20250601T140000Z/20250601T153000Z", u.Query().Get("dates"))
}

func TestLink_EscapesQueryValues(t *testing.T) {
	link := Link("Q&A: AI/ML", "2025-06-01T14:00:00Z", "2025-06-01T15:00:00Z", "Room 1 & 2", "")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Q&A: AI/ML", u.Query().Get("text"))
	assert.Equal(t, "Room 1 & 2", u.Query().Get("location"))
}

func TestLink_UnparsableTimesYieldEmptySegments(t *testing.T) {
	link := Link("Session", "not-a-time", "2025-06-01T15:00:00Z", "", "")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/20250601T150000Z", u.Query().Get("dates"))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected string
	}{
		{
			name:     "hours and minutes",
			start:    "2025-06-01T14:00:00Z",
			end:      "2025-06-01T15:30:00Z",
			expected: "1h 30min",
		},
		{
			name:     "exact hours",
			start:    "2025-06-01T14:00:00Z",
			end:      "2025-06-01T16:00:00Z",
			expected: "2h",
		},
		{
			name:     "minutes only",
			start:    "2025-06-01T14:00:00Z",
			end:      "2025-06-01T14:45:00Z",
			expected: "45min",
		},
		{
			name:     "zero span",
			start:    "2025-06-01T14:00:00Z",
			end:      "2025-06-01T14:00:00Z",
			expected: "0min",
		},
		{
			name:     "negative span clamps to zero",
			start:    "2025-06-01T15:00:00Z",
			end:      "2025-06-01T14:00:00Z",
			expected: "0min",
		},
		{
			name:     "sub-minute rounds down",
			start:    "2025-06-01T14:00:00Z",
			end:      "2025-06-01T14:00:59Z",
			expected: "0min",
		},
		{
			name:     "unparsable start",
			start:    "garbage",
			end:      "2025-06-01T14:00:00Z",
			expected: "",
		},
		{
			name:     "unparsable end",
			start:    "2025-06-01T14:00:00Z",
			end:      "garbage",
			expected: "",
		},
		{
			name:     "offsets compared on the absolute timeline",
			start:    "2025-06-01T14:00:00+02:00",
			end:      "2025-06-01T13:00:00Z",
			expected: "1h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Duration(tt.start, tt.end))
		})
	}
}
