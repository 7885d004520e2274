package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mawere/uniport/core"
)

// Guard evaluation outcomes.
const (
	StatusAuthenticated Status = iota
	StatusRejected
	StatusIndeterminate
)

// Rejection reasons. The first three are local gaps detected without any
// network call; the last is the verification endpoint's explicit verdict.
const (
	ReasonNoToken       = "no token"
	ReasonWrongRole     = "wrong role"
	ReasonNoIdentity    = "no identity"
	ReasonServerInvalid = "server says invalid"
)

// CallerPolicy names how a page reacts to the guard's result. The guard
// itself never redirects; pages apply their policy to the returned Result.
const (
	// RedirectOnAuthenticated: landing/login pages send an authenticated
	// viewer to the role dashboard after a short delay and otherwise stay put.
	RedirectOnAuthenticated CallerPolicy = iota
	// ShowErrorPanelOnRejected: dashboard pages present an in-page error
	// panel on Rejected or Indeterminate; never a hard redirect, so a
	// transient failure cannot cause a redirect loop.
	ShowErrorPanelOnRejected
)

type (
	Status       int
	CallerPolicy int

	// Verifier confirms a token is still valid with the backend.
	// An error means the check could not be completed (transport failure or
	// a response carrying no explicit verdict), NOT that the token is bad.
	Verifier interface {
		VerifyToken(ctx context.Context, token string) (valid bool, err error)
	}

	Result struct {
		Status   Status
		Identity Identity // set when Authenticated
		Reason   string   // set when Rejected
	}

	// Guard decides, once per page load, whether role-gated content may
	// render for the current viewer.
	Guard struct {
		store    Store
		verifier Verifier
		log      core.Logger
	}
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusRejected:
		return "rejected"
	case StatusIndeterminate:
		return "indeterminate"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func NewGuard(store Store, verifier Verifier, log core.Logger) *Guard {
	return &Guard{store: store, verifier: verifier, log: log}
}

// Evaluate runs the auth-gate checks in order, short-circuiting on the first
// failure: token present, role matches, identity present, then remote
// verification. Local gaps never touch the network and never clear the store
// (the data was already absent or inconsistent). Only an explicit invalid
// verdict clears the three entries; a verification call that cannot complete
// leaves them untouched so a transient outage does not log the user out.
func (g *Guard) Evaluate(ctx context.Context, required Role) Result {
	token := g.store.Get(KeyToken)
	if token == "" {
		return Result{Status: StatusRejected, Reason: ReasonNoToken}
	}

	role := g.store.Get(KeyUserType)
	if role == "" || Role(role) != required {
		return Result{Status: StatusRejected, Reason: ReasonWrongRole}
	}

	rawUser := g.store.Get(KeyUser)
	if rawUser == "" {
		return Result{Status: StatusRejected, Reason: ReasonNoIdentity}
	}
	var ident Identity
	if err := json.Unmarshal([]byte(rawUser), &ident); err != nil {
		return Result{Status: StatusRejected, Reason: ReasonNoIdentity}
	}

	valid, err := g.verifier.VerifyToken(ctx, token)
	if err != nil {
		if g.log != nil {
			g.log.Warn(fmt.Sprintf("session check could not complete: %v", err))
		}
		return Result{Status: StatusIndeterminate}
	}
	if !valid {
		if err := g.store.Clear(); err != nil && g.log != nil {
			g.log.Error(fmt.Sprintf("clearing invalid session: %v", err), err)
		}
		return Result{Status: StatusRejected, Reason: ReasonServerInvalid}
	}

	return Result{Status: StatusAuthenticated, Identity: ident}
}
