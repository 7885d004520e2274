package catalog

import (
	"context"
	"fmt"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/records"
)

// Catalog lists the programmes and faculties offered for sign-up forms and
// admin dropdowns.
type Catalog interface {
	Programmes(ctx context.Context) ([]records.Programme, error)
	Faculties(ctx context.Context) ([]records.Faculty, error)
}

// DefaultProgrammes is the stock catalog used only when the configured
// endpoint is unreachable.
var DefaultProgrammes = []records.Programme{
	{Code: "CS001", Name: "BSc Computer Science", FacultyName: "Faculty of Computer Science"},
	{Code: "CS002", Name: "BSc Software Engineering", FacultyName: "Faculty of Computer Science"},
	{Code: "EN001", Name: "BEng Civil Engineering", FacultyName: "Faculty of Engineering"},
	{Code: "BS001", Name: "BBA Business Administration", FacultyName: "Faculty of Business Studies"},
}

var DefaultFaculties = []records.Faculty{
	{Code: "FBS", Name: "Faculty of Business Studies"},
	{Code: "FCS", Name: "Faculty of Computer Science"},
	{Code: "FEN", Name: "Faculty of Engineering"},
}

// fallback serves the default catalog when the inner one cannot be reached.
// There is exactly one configured endpoint behind inner; no URL guessing.
type fallback struct {
	inner Catalog
	log   core.Logger
}

// WithFallback decorates a catalog with the stock defaults.
func WithFallback(inner Catalog, log core.Logger) Catalog {
	return &fallback{inner: inner, log: log}
}

func (f *fallback) Programmes(ctx context.Context) ([]records.Programme, error) {
	programmes, err := f.inner.Programmes(ctx)
	if err != nil {
		f.warn("programmes", err)
		return DefaultProgrammes, nil
	}
	return programmes, nil
}

func (f *fallback) Faculties(ctx context.Context) ([]records.Faculty, error) {
	faculties, err := f.inner.Faculties(ctx)
	if err != nil {
		f.warn("faculties", err)
		return DefaultFaculties, nil
	}
	return faculties, nil
}

func (f *fallback) warn(what string, err error) {
	if f.log != nil {
		f.log.Warn(fmt.Sprintf("catalog: %s unavailable, using defaults: %v", what, err))
	}
}
