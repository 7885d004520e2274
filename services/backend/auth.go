package backendsvc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/account"
)

// Login exchanges credentials for a token. A response decoded with
// success=false is surfaced as an APIError carrying the server's message so
// the exchange layer can show the server's wording.
func (c *Client) Login(ctx context.Context, creds account.Credentials) (account.LoginResult, error) {
	var res account.LoginResult

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/login", creds)
	if err != nil {
		return res, err
	}

	resp, err := c.do(req)
	if err != nil {
		return res, err
	}
	if !ok(resp) {
		return res, apiError(resp)
	}
	if err := decode(resp, &res); err != nil {
		return res, err
	}
	if !res.Success {
		return res, &core.APIError{StatusCode: resp.StatusCode, Message: res.Message}
	}
	return res, nil
}

func (c *Client) RegisterStudent(ctx context.Context, reg account.StudentRegistration) (account.RegisterResult, error) {
	return c.register(ctx, reg)
}

func (c *Client) RegisterAdmin(ctx context.Context, reg account.AdminRegistration) (account.RegisterResult, error) {
	return c.register(ctx, reg)
}

func (c *Client) register(ctx context.Context, payload interface{}) (account.RegisterResult, error) {
	var res account.RegisterResult

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth/register", payload)
	if err != nil {
		return res, err
	}

	resp, err := c.do(req)
	if err != nil {
		return res, err
	}
	if !ok(resp) {
		return res, apiError(resp)
	}
	if err := decode(resp, &res); err != nil {
		return res, err
	}
	if !res.Success {
		return res, &core.APIError{StatusCode: resp.StatusCode, Message: res.Message}
	}
	return res, nil
}

// VerifyToken asks the server whether token is still good. An explicit
// valid:false verdict counts as a rejection on any status, but a positive
// verdict is only trusted on a success response; anything else is reported as
// an error so callers stay indeterminate instead of logging the user out over
// a flaky connection.
func (c *Client) VerifyToken(ctx context.Context, token string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/verify", nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		Valid *bool `json:"valid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Valid == nil {
		return false, &core.APIError{StatusCode: resp.StatusCode}
	}
	if !*body.Valid {
		return false, nil
	}
	if !ok(resp) {
		return false, &core.APIError{StatusCode: resp.StatusCode}
	}
	return true, nil
}
