// Package timeline holds the simulated 72-hour clock used across the
// dashboard: hour normalization, window clamping, and deep-link hour parsing.
package timeline

// Hours in the simulated window, numbered 0..71 (three 24-hour days).
const (
	HourCount = 72
	MaxHour   = HourCount - 1
)

// Window is an inclusive [Start, End] hour range. The zero value is invalid;
// use Full or NewWindow.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Full covers the whole simulation.
func Full() Window {
	return Window{Start: 0, End: MaxHour}
}

// NewWindow clamps both bounds into [0, MaxHour] and swaps them if reversed,
// so 0 <= Start <= End <= MaxHour always holds.
func NewWindow(start, end int) Window {
	start = clampHour(start)
	end = clampHour(end)
	if start > end {
		start, end = end, start
	}
	return Window{Start: start, End: end}
}

// Contains reports whether hour falls inside the window.
func (w Window) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// Clamp forces hour into the window.
func (w Window) Clamp(hour int) int {
	if hour < w.Start {
		return w.Start
	}
	if hour > w.End {
		return w.End
	}
	return hour
}

// NormalizeHour wraps any integer onto the 72-hour clock. Deep links may
// carry out-of-range values ("77" means hour 5).
func NormalizeHour(hour int) int {
	h := hour % HourCount
	if h < 0 {
		h += HourCount
	}
	return h
}

func clampHour(h int) int {
	if h < 0 {
		return 0
	}
	if h > MaxHour {
		return MaxHour
	}
	return h
}
