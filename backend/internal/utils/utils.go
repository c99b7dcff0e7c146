package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is zero-padded and fixed-width, so lexicographic order of
// rendered values matches chronological order.
const DateTimeLayout = "2006-01-02 15:04:05"

const ClockLayout = "15:04:05"

var ErrInvalidID = errors.New("invalid id")

func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// FormatRemaining renders a non-negative duration as "D days, H:MM:SS",
// dropping the day part when it is zero.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		return "-" + FormatRemaining(-d)
	}
	total := int64(d / time.Second)
	days := total / 86400
	rest := total % 86400
	clock := fmt.Sprintf("%d:%02d:%02d", rest/3600, (rest%3600)/60, rest%60)

	switch days {
	case 0:
		return clock
	case 1:
		return "1 day, " + clock
	default:
		return fmt.Sprintf("%d days, %s", days, clock)
	}
}
