package backendsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// SemesterReport streams the PDF semester report for a student into w and
// returns the number of bytes written.
func (c *Client) SemesterReport(ctx context.Context, studentID int, semesterCode string, w io.Writer) (int64, error) {
	path := fmt.Sprintf("/api/reports/semester/%d/%s", studentID, semesterCode)
	return c.download(ctx, path, w)
}

// AcademicRecord streams the PDF record for one academic year.
func (c *Client) AcademicRecord(ctx context.Context, studentID, year int, w io.Writer) (int64, error) {
	path := fmt.Sprintf("/api/reports/academic/%d/%d", studentID, year)
	return c.download(ctx, path, w)
}

// Transcript streams the full transcript PDF.
func (c *Client) Transcript(ctx context.Context, studentID int, w io.Writer) (int64, error) {
	path := fmt.Sprintf("/api/reports/transcript/%d", studentID)
	return c.download(ctx, path, w)
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return 0, err
	}
	c.authorize(req)

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if !ok(resp) {
		return 0, apiError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, pkgerrors.Wrap(err, "streaming report")
	}
	c.debugf("downloaded %s (%d bytes)", path, n)
	return n, nil
}
