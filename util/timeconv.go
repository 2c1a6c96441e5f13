package util

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the exclusive upper bound of a minutes-since-midnight value,
// except as a slot end where it stands for midnight.
const MinutesPerDay = 24 * 60

// ErrInvalidTime is returned for time-of-day strings that are not HH:MM.
var ErrInvalidTime = errors.New("invalid time of day")

// ConvertHourToMinutes converts an "HH:MM" time of day to minutes since midnight.
// The hour may have one or two digits, the minutes exactly two. "24:00" is
// accepted as MinutesPerDay so a slot can end at midnight.
func ConvertHourToMinutes(hour string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(hour), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !isDigits(hh) || !isDigits(mm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hour)
	}

	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h == 24 && m == 0 {
		return MinutesPerDay, nil
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, hour)
	}
	return h*60 + m, nil
}

// ConvertMinutesToHour renders minutes since midnight as "HH:MM".
func ConvertMinutesToHour(minutes int) (string, error) {
	if minutes < 0 || minutes > MinutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrInvalidTime, minutes)
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
