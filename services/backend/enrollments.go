package backendsvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/records"
)

type EnrollmentForm struct {
	StudentID    int    `json:"studentId"`
	ModuleCode   string `json:"moduleCode"`
	SemesterCode string `json:"semesterCode"`
}

func (c *Client) Enrollments(ctx context.Context) ([]records.Enrollment, error) {
	var enrollments []records.Enrollment
	if err := c.getJSON(ctx, "/api/enrollments", &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// StudentEnrollments lists one student's enrollments across all semesters.
func (c *Client) StudentEnrollments(ctx context.Context, studentID int) ([]records.Enrollment, error) {
	var enrollments []records.Enrollment
	path := fmt.Sprintf("/api/enrollments/student/%d", studentID)
	if err := c.getJSON(ctx, path, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (c *Client) CreateEnrollment(ctx context.Context, form EnrollmentForm) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/enrollments", form)
}

// SetMark records a mark for an enrollment. Out-of-range marks are rejected
// locally, no request is made.
func (c *Client) SetMark(ctx context.Context, enrollmentID int, mark float64) error {
	if mark < 0 || mark > 100 {
		return core.NewValidationError(
			errors.New("invalid mark"),
			core.FieldError{Field: "markObtained", Error: "Mark must be between 0 and 100"},
		)
	}
	body := struct {
		EnrollmentID int     `json:"enrollmentId"`
		MarkObtained float64 `json:"markObtained"`
	}{enrollmentID, mark}
	return c.sendJSON(ctx, http.MethodPut, "/api/enrollments/marks", body)
}

func (c *Client) Semesters(ctx context.Context) ([]records.Semester, error) {
	var semesters []records.Semester
	if err := c.getJSON(ctx, "/api/enrollments/semesters", &semesters); err != nil {
		return nil, err
	}
	return semesters, nil
}
