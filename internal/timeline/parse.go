package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dayClockPattern matches the natural-language hour forms accepted in deep
// links: "Day2 3pm", "day 1 12:30 am", "Day3 07:00".
var dayClockPattern = regexp.MustCompile(`(?i)^day\s*([1-3])\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

// ParseHour converts a deep-link hour parameter into a simulation hour.
// Bare integers are normalized mod 72; "DayN <clock>" forms map day 1..3 and
// a 12- or 24-hour clock onto 0..71. Minutes, when present, are truncated.
func ParseHour(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty hour")
	}

	if n, err := strconv.Atoi(s); err == nil {
		return NormalizeHour(n), nil
	}

	m := dayClockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unrecognized hour %q", raw)
	}

	day, _ := strconv.Atoi(m[1])
	clock, _ := strconv.Atoi(m[2])
	meridiem := strings.ToLower(m[4])

	switch meridiem {
	case "am":
		if clock < 1 || clock > 12 {
			return 0, fmt.Errorf("invalid clock hour %q", raw)
		}
		if clock == 12 {
			clock = 0
		}
	case "pm":
		if clock < 1 || clock > 12 {
			return 0, fmt.Errorf("invalid clock hour %q", raw)
		}
		if clock != 12 {
			clock += 12
		}
	default:
		if clock > 23 {
			return 0, fmt.Errorf("invalid clock hour %q", raw)
		}
	}

	return (day-1)*24 + clock, nil
}

// ParseWindow parses optional start/end parameters, defaulting missing bounds
// to the full simulation.
func ParseWindow(startRaw, endRaw string) (Window, error) {
	w := Full()
	if strings.TrimSpace(startRaw) != "" {
		h, err := ParseHour(startRaw)
		if err != nil {
			return Window{}, fmt.Errorf("startHour: %w", err)
		}
		w.Start = h
	}
	if strings.TrimSpace(endRaw) != "" {
		h, err := ParseHour(endRaw)
		if err != nil {
			return Window{}, fmt.Errorf("endHour: %w", err)
		}
		w.End = h
	}
	return NewWindow(w.Start, w.End), nil
}
