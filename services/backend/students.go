package backendsvc

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mawere/uniport/core/records"
)

// StudentForm is the create/update payload for a student record. Password is
// only sent on create; updates leave it empty and the server keeps the old
// hash.
type StudentForm struct {
	Name          string `json:"studentName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Email         string `json:"emailAddress"`
	ContactNumber string `json:"contactNumber,omitempty"`
	ProgrammeCode string `json:"programmeCode"`
	YearEnrolled  int    `json:"yearEnrolled"`
	Password      string `json:"password,omitempty"`
}

func (c *Client) Students(ctx context.Context) ([]records.Student, error) {
	var students []records.Student
	if err := c.getJSON(ctx, "/api/students", &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) Student(ctx context.Context, id int) (records.Student, error) {
	var student records.Student
	err := c.getJSON(ctx, fmt.Sprintf("/api/students/%d", id), &student)
	return student, err
}

func (c *Client) CreateStudent(ctx context.Context, form StudentForm) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/students", form)
}

func (c *Client) UpdateStudent(ctx context.Context, id int, form StudentForm) error {
	return c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/students/%d", id), form)
}

func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/students/%d", id), nil)
}

// ProgrammesList returns the programme choices offered on the student form.
func (c *Client) ProgrammesList(ctx context.Context) ([]records.Programme, error) {
	var programmes []records.Programme
	if err := c.getJSON(ctx, "/api/students/programmes/list", &programmes); err != nil {
		return nil, err
	}
	return programmes, nil
}
