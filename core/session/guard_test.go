package session_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/mawere/uniport/core/session"
	sessionstore "github.com/mawere/uniport/storage/session"
)

// fakeVerifier counts calls and plays back a scripted verdict.
type fakeVerifier struct {
	valid bool
	err   error
	calls int
}

func (v *fakeVerifier) VerifyToken(_ context.Context, _ string) (bool, error) {
	v.calls++
	return v.valid, v.err
}

func seed(t *testing.T, st session.Store, token, role, rawUser string) {
	t.Helper()
	entries := make(map[string]string)
	if token != "" {
		entries[session.KeyToken] = token
	}
	if role != "" {
		entries[session.KeyUserType] = role
	}
	if rawUser != "" {
		entries[session.KeyUser] = rawUser
	}
	if len(entries) == 0 {
		return
	}
	if err := st.Set(entries); err != nil {
		t.Fatalf("seeding store: %v", err)
	}
}

func TestGuard_Evaluate(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		role     string
		rawUser  string
		required session.Role
		verifier fakeVerifier

		wantStatus session.Status
		wantReason string
		wantIdent  session.Identity
		wantCalls  int
		wantClear  bool
	}{
		{
			name:       "empty store",
			required:   session.RoleStudent,
			wantStatus: session.StatusRejected,
			wantReason: session.ReasonNoToken,
		},
		{
			name:       "token but wrong role",
			token:      "t1",
			role:       "student",
			rawUser:    `{"id":7,"name":"A"}`,
			required:   session.RoleAdmin,
			wantStatus: session.StatusRejected,
			wantReason: session.ReasonWrongRole,
		},
		{
			name:       "token and role but no identity",
			token:      "t1",
			role:       "student",
			required:   session.RoleStudent,
			wantStatus: session.StatusRejected,
			wantReason: session.ReasonNoIdentity,
		},
		{
			name:       "malformed identity",
			token:      "t1",
			role:       "student",
			rawUser:    `{"id":`,
			required:   session.RoleStudent,
			wantStatus: session.StatusRejected,
			wantReason: session.ReasonNoIdentity,
		},
		{
			name:       "all checks pass",
			token:      "t1",
			role:       "student",
			rawUser:    `{"id":7,"name":"A"}`,
			required:   session.RoleStudent,
			verifier:   fakeVerifier{valid: true},
			wantStatus: session.StatusAuthenticated,
			wantIdent:  session.Identity{ID: 7, Name: "A"},
			wantCalls:  1,
		},
		{
			name:       "server says invalid",
			token:      "t1",
			role:       "student",
			rawUser:    `{"id":7,"name":"A"}`,
			required:   session.RoleStudent,
			verifier:   fakeVerifier{valid: false},
			wantStatus: session.StatusRejected,
			wantReason: session.ReasonServerInvalid,
			wantCalls:  1,
			wantClear:  true,
		},
		{
			name:       "verification cannot complete",
			token:      "t1",
			role:       "student",
			rawUser:    `{"id":7,"name":"A"}`,
			required:   session.RoleStudent,
			verifier:   fakeVerifier{err: errors.New("connection refused")},
			wantStatus: session.StatusIndeterminate,
			wantCalls:  1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sessionstore.NewMemoryStore()
			seed(t, store, tt.token, tt.role, tt.rawUser)
			before := store.Snapshot()

			guard := session.NewGuard(store, &tt.verifier, nil)
			res := guard.Evaluate(context.Background(), tt.required)

			if res.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", res.Status, tt.wantStatus)
			}
			if res.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", res.Reason, tt.wantReason)
			}
			if res.Identity != tt.wantIdent {
				t.Errorf("Identity = %+v, want %+v", res.Identity, tt.wantIdent)
			}
			if tt.verifier.calls != tt.wantCalls {
				t.Errorf("verifier calls = %d, want %d", tt.verifier.calls, tt.wantCalls)
			}

			after := store.Snapshot()
			if tt.wantClear {
				if len(after) != 0 {
					t.Errorf("store not cleared: %v", after)
				}
			} else if !reflect.DeepEqual(before, after) {
				t.Errorf("store changed: before %v, after %v", before, after)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		role    string
		rawUser string
		want    *session.Session
	}{
		{name: "empty"},
		{name: "token only", token: "t1"},
		{name: "missing identity", token: "t1", role: "admin"},
		{name: "unparseable identity", token: "t1", role: "admin", rawUser: "{"},
		{
			name: "complete", token: "t1", role: "student", rawUser: `{"id":7,"name":"A"}`,
			want: &session.Session{
				Token:    "t1",
				Role:     session.RoleStudent,
				Identity: session.Identity{ID: 7, Name: "A"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sessionstore.NewMemoryStore()
			seed(t, store, tt.token, tt.role, tt.rawUser)

			got := session.Current(store)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Current() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   session.Role
		wantOK bool
	}{
		{"student", session.RoleStudent, true},
		{"admin", session.RoleAdmin, true},
		{" Admin ", session.RoleAdmin, true},
		{"STUDENT", session.RoleStudent, true},
		{"teacher", session.Role("teacher"), false},
		{"", session.Role(""), false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := session.ParseRole(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseRole(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
