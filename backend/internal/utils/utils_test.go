package utils_test

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/utils"
)

func TestFormatDateTime_ZeroPadded(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	if got := utils.FormatDateTime(ts); got != "2024-01-02 03:04:05" {
		t.Errorf("Expected 2024-01-02 03:04:05, got %s", got)
	}
}

func TestFormatDateTime_LexicographicMatchesChronological(t *testing.T) {
	times := []time.Time{
		time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}

	rendered := make([]string, len(times))
	for i, ts := range times {
		rendered[i] = utils.FormatDateTime(ts)
	}
	sort.Strings(rendered)
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	for i := range times {
		if rendered[i] != utils.FormatDateTime(times[i]) {
			t.Errorf("Position %d: expected %s, got %s", i, utils.FormatDateTime(times[i]), rendered[i])
		}
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2024, 1, 2, 7, 8, 9, 0, time.UTC)
	if got := utils.FormatClock(ts); got != "07:08:09" {
		t.Errorf("Expected 07:08:09, got %s", got)
	}
}

func TestParseID_Valid(t *testing.T) {
	id, err := utils.ParseID("42")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if id != 42 {
		t.Errorf("Expected 42, got %d", id)
	}
}

func TestParseID_Invalid(t *testing.T) {
	invalid := []string{"", "abc", "0", "-3", "1.5"}

	for _, raw := range invalid {
		if _, err := utils.ParseID(raw); !errors.Is(err, utils.ErrInvalidID) {
			t.Errorf("Expected ErrInvalidID for %q, got %v", raw, err)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{10 * time.Minute, "0:10:00"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23:59:59"},
		{25 * time.Hour, "1 day, 1:00:00"},
		{6*24*time.Hour + time.Hour, "6 days, 1:00:00"},
		{1500 * time.Millisecond, "0:00:01"},
	}

	for _, tt := range tests {
		if got := utils.FormatRemaining(tt.in); got != tt.want {
			t.Errorf("FormatRemaining(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
