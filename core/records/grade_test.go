package records

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		name string
		mark null.Float64
		want string
	}{
		{"no mark", null.Float64{}, "N/A"},
		{"zero", null.Float64From(0), "F"},
		{"just under D", null.Float64From(49.9), "F"},
		{"D boundary", null.Float64From(50), "D"},
		{"C boundary", null.Float64From(60), "C"},
		{"B boundary", null.Float64From(70), "B"},
		{"just under A", null.Float64From(79.9), "B"},
		{"A boundary", null.Float64From(80), "A"},
		{"full marks", null.Float64From(100), "A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(tt.mark); got != tt.want {
				t.Errorf("Grade(%v) = %q, want %q", tt.mark, got, tt.want)
			}
		})
	}
}

func TestCurrentSemesterCode(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-01-15", "S20252"},
		{"2025-07-31", "S20252"},
		{"2025-08-01", "S20251"},
		{"2025-12-31", "S20251"},
		{"2026-03-02", "S20262"},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			now, err := time.Parse("2006-01-02", tt.date)
			if err != nil {
				t.Fatal(err)
			}
			if got := CurrentSemesterCode(now); got != tt.want {
				t.Errorf("CurrentSemesterCode(%s) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestGraded(t *testing.T) {
	enrollments := []Enrollment{
		{ID: 1, Mark: null.Float64From(65)},
		{ID: 2},
		{ID: 3, Mark: null.Float64From(0)},
	}
	graded := Graded(enrollments)
	if len(graded) != 2 {
		t.Fatalf("Graded() returned %d enrollments, want 2", len(graded))
	}
	if graded[0].ID != 1 || graded[1].ID != 3 {
		t.Errorf("Graded() = %+v", graded)
	}
}
