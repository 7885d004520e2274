package records

import (
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
)

// Grade maps a mark to its letter grade. An absent mark has no grade.
func Grade(mark null.Float64) string {
	if !mark.Valid {
		return "N/A"
	}
	switch m := mark.Float64; {
	case m >= 80:
		return "A"
	case m >= 70:
		return "B"
	case m >= 60:
		return "C"
	case m >= 50:
		return "D"
	default:
		return "F"
	}
}

// CurrentSemesterCode returns the S{year}{semester} code for the given date.
// Semester 1 runs from August through December, semester 2 the rest of the year.
func CurrentSemesterCode(now time.Time) string {
	sem := 2
	if now.Month() >= time.August {
		sem = 1
	}
	return fmt.Sprintf("S%d%d", now.Year(), sem)
}
