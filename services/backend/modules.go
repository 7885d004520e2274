package backendsvc

import (
	"context"
	"net/http"

	"github.com/volatiletech/null/v8"

	"github.com/mawere/uniport/core/records"
)

// ModuleForm is the create payload for a module.
type ModuleForm struct {
	Code            string   `json:"moduleCode"`
	Name            string   `json:"moduleName"`
	Description     string   `json:"moduleDescription,omitempty"`
	CreditHours     int      `json:"creditHours"`
	YearLevel       int      `json:"yearLevel"`
	SemesterOffered null.Int `json:"semesterOffered"`
	ProgrammeCode   string   `json:"programmeCode"`
}

func (c *Client) Modules(ctx context.Context) ([]records.Module, error) {
	var modules []records.Module
	if err := c.getJSON(ctx, "/api/modules", &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

func (c *Client) CreateModule(ctx context.Context, form ModuleForm) error {
	return c.sendJSON(ctx, http.MethodPost, "/api/modules", form)
}
