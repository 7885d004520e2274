package backendsvc

import (
	"context"
	"net/http"

	"github.com/mawere/uniport/core/records"
)

// Programmes fetches the programme catalog. The endpoint is public, no
// bearer token is attached.
func (c *Client) Programmes(ctx context.Context) ([]records.Programme, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/programmes", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, apiError(resp)
	}
	var programmes []records.Programme
	if err := decode(resp, &programmes); err != nil {
		return nil, err
	}
	return programmes, nil
}

// Faculties fetches the faculty catalog, also public.
func (c *Client) Faculties(ctx context.Context) ([]records.Faculty, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/programmes/faculties", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, apiError(resp)
	}
	var faculties []records.Faculty
	if err := decode(resp, &faculties); err != nil {
		return nil, err
	}
	return faculties, nil
}
