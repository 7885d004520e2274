package account

import (
	"context"
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/session"
)

// Generic user-facing messages. Server wording takes precedence whenever the
// response carries one.
const (
	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgRegistrationFailed = "Registration failed. Please try again."
	MsgConnectionFailed   = "Network error. Please check if the server is running."
	MsgUnknownUserType    = "Unknown user type. Please contact administrator."
	MsgRegistered         = "Account created successfully!"
)

type (
	// Backend is the slice of the API client the exchanges need.
	Backend interface {
		Login(ctx context.Context, creds Credentials) (LoginResult, error)
		RegisterStudent(ctx context.Context, reg StudentRegistration) (RegisterResult, error)
		RegisterAdmin(ctx context.Context, reg AdminRegistration) (RegisterResult, error)
	}

	// Error carries a ready-to-display message for a failed exchange.
	Error struct {
		Message string
		Cause   error
	}

	Service struct {
		api   Backend
		store session.Store
		log   core.Logger
	}
)

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Cause }

func NewService(api Backend, store session.Store, log core.Logger) *Service {
	return &Service{api: api, store: store, log: log}
}

// Login exchanges credentials for a session and persists it. The requested
// role in creds is advisory; the server-confirmed role is what gets stored
// and returned, and a requested/returned mismatch is not an error. No retry
// is attempted on failure; the caller may resubmit manually.
func (svc *Service) Login(ctx context.Context, creds Credentials) (*session.Session, error) {
	creds.Email = core.CleanString(creds.Email)
	creds.Password = core.CleanString(creds.Password)

	if err := core.Validate.StructCtx(ctx, creds); err != nil {
		return nil, core.TranslateValidationErrors(err)
	}

	res, err := svc.api.Login(ctx, creds)
	if err != nil {
		return nil, exchangeError(err, MsgLoginFailed)
	}

	role, ok := session.ParseRole(res.UserType)
	if !ok {
		return nil, &Error{Message: MsgUnknownUserType}
	}

	if err := session.Save(svc.store, res.Token, role, string(res.User)); err != nil {
		return nil, pkgerrors.Wrap(err, "persisting session")
	}

	var ident session.Identity
	if err := json.Unmarshal(res.User, &ident); err != nil {
		return nil, pkgerrors.Wrap(err, "decoding identity snapshot")
	}
	return &session.Session{Token: res.Token, Role: role, Identity: ident}, nil
}

// RegisterStudent submits a student sign-up. Validation failures surface
// before any network call is made.
func (svc *Service) RegisterStudent(ctx context.Context, reg StudentRegistration) (string, error) {
	reg.AccountType = AccountTypeStudent
	reg.Email = core.CleanString(reg.Email)

	if err := core.Validate.StructCtx(ctx, reg); err != nil {
		return "", core.TranslateValidationErrors(err)
	}

	res, err := svc.api.RegisterStudent(ctx, reg)
	if err != nil {
		return "", exchangeError(err, MsgRegistrationFailed)
	}
	return successMessage(res), nil
}

// RegisterAdmin submits an admin sign-up.
func (svc *Service) RegisterAdmin(ctx context.Context, reg AdminRegistration) (string, error) {
	reg.AccountType = AccountTypeAdmin
	reg.Email = core.CleanString(reg.Email)

	if err := core.Validate.StructCtx(ctx, reg); err != nil {
		return "", core.TranslateValidationErrors(err)
	}

	res, err := svc.api.RegisterAdmin(ctx, reg)
	if err != nil {
		return "", exchangeError(err, MsgRegistrationFailed)
	}
	return successMessage(res), nil
}

// Logout clears the persisted session entries.
func (svc *Service) Logout() error {
	return svc.store.Clear()
}

func successMessage(res RegisterResult) string {
	if res.Message != "" {
		return res.Message
	}
	return MsgRegistered
}

// exchangeError maps client errors to user-facing messages: server refusals
// surface the server's wording (or the fallback), transport failures get the
// distinct connectivity message.
func exchangeError(err error, fallback string) error {
	switch cause := pkgerrors.Cause(err).(type) {
	case *core.APIError:
		msg := cause.Message
		if msg == "" {
			msg = fallback
		}
		return &Error{Message: msg, Cause: err}
	case *core.NetworkError:
		return &Error{Message: MsgConnectionFailed, Cause: err}
	default:
		return &Error{Message: fallback, Cause: err}
	}
}
