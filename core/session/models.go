package session

import (
	"encoding/json"

	"github.com/mawere/uniport/core"
)

// Roles assignable by the backend at login time.
const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

type Role string

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// ParseRole normalizes a raw role string. ok is false for roles this client
// does not know; the server value is still authoritative, we just refuse to
// route anywhere with it.
func ParseRole(s string) (Role, bool) {
	r := Role(core.CleanString(s, true))
	return r, r.Valid()
}

// Identity is the user profile snapshot captured at login. The persisted
// entry keeps the server's serialized form verbatim so role-specific fields
// survive round-tripping.
type Identity struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`

	// role-specific fields
	ProgrammeCode string `json:"programmeCode,omitempty"`
	Faculty       string `json:"faculty,omitempty"`
}

// Session is the token+role+identity triple identifying a logged-in user.
// All three fields are present together or not at all; partial presence is
// treated as no session.
type Session struct {
	Token    string
	Role     Role
	Identity Identity
}

// Save persists the session triple in a single store write. The three entries
// must never be split across separate writes: a concurrent reader may not
// observe a half-written session.
func Save(st Store, token string, role Role, rawIdentity string) error {
	return st.Set(map[string]string{
		KeyToken:    token,
		KeyUserType: string(role),
		KeyUser:     rawIdentity,
	})
}

// Current returns the stored session, or nil if any of the three entries is
// absent or the identity snapshot does not parse.
func Current(st Store) *Session {
	token := st.Get(KeyToken)
	role := Role(st.Get(KeyUserType))
	rawUser := st.Get(KeyUser)
	if token == "" || role == "" || rawUser == "" {
		return nil
	}

	var ident Identity
	if err := json.Unmarshal([]byte(rawUser), &ident); err != nil {
		return nil
	}
	return &Session{Token: token, Role: role, Identity: ident}
}
