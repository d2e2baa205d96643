package validation

import (
	"fmt"
	"time"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/apperrors"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
// Note: mirrors repository.ParseTime; both are intentionally kept local to avoid cross-layer imports.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// ValidateDateRange checks that start does not come after end.
func ValidateDateRange(start, end time.Time) error {
	if start.After(end) {
		return fmt.Errorf("%w: %s is after %s",
			apperrors.ErrInvalidDateRange,
			start.Format("2006-01-02"),
			end.Format("2006-01-02"),
		)
	}
	return nil
}
