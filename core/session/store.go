package session

// Entry keys in the persistent client store. This three-entry layout is the
// entire on-client contract the guard depends on.
const (
	KeyToken    = "token"
	KeyUserType = "userType"
	KeyUser     = "user"
)

// Store is the persistent client store holding the session entries.
// Implementations live in storage/session; an in-memory one backs tests.
type Store interface {
	// Get returns the value for key, or "" when absent.
	Get(key string) string
	// Set writes all given entries in one step. Callers persisting a session
	// pass the full triple so readers never observe it half-written.
	Set(entries map[string]string) error
	// Clear removes every entry.
	Clear() error
}
