package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHour(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"0", 0},
		{"71", 71},
		{"77", 5},   // wraps mod 72
		{"-1", 71},  // negatives wrap too
		{"Day1 12am", 0},
		{"Day1 1am", 1},
		{"Day2 3pm", 39},
		{"day 2 3 PM", 39},
		{"Day2 12pm", 36},
		{"Day3 11pm", 71},
		{"Day1 12:30 am", 0}, // minutes truncated
		{"Day2 07:00", 31},   // 24-hour clock
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHour(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHourRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "Day4 1pm", "Day2 13pm", "Day2 25:00", "noon", "Day2"} {
		_, err := ParseHour(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("", "")
	require.NoError(t, err)
	assert.Equal(t, Full(), w)

	w, err = ParseWindow("10", "20")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 10, End: 20}, w)

	// reversed bounds swap rather than fail
	w, err = ParseWindow("20", "10")
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 10, End: 20}, w)

	_, err = ParseWindow("bogus", "")
	assert.Error(t, err)
}

func TestNormalizeHour(t *testing.T) {
	assert.Equal(t, 0, NormalizeHour(72))
	assert.Equal(t, 5, NormalizeHour(77))
	assert.Equal(t, 71, NormalizeHour(-1))
	assert.Equal(t, 67, NormalizeHour(-5))
}

func TestWindowClampContains(t *testing.T) {
	w := NewWindow(10, 20)
	assert.True(t, w.Contains(10))
	assert.True(t, w.Contains(20))
	assert.False(t, w.Contains(9))
	assert.False(t, w.Contains(21))
	assert.Equal(t, 10, w.Clamp(3))
	assert.Equal(t, 20, w.Clamp(50))
	assert.Equal(t, 15, w.Clamp(15))
}
