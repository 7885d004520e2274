package sessionstore

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/mawere/uniport/core/session"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	dir, err := ioutil.TempDir("", "uniport-session")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return NewFileStore(filepath.Join(dir, "session.json"))
}

func TestFileStore_roundTrip(t *testing.T) {
	st := tempStore(t)

	if got := st.Get(session.KeyToken); got != "" {
		t.Errorf("Get on empty store = %q, want empty", got)
	}

	err := st.Set(map[string]string{
		session.KeyToken:    "t1",
		session.KeyUserType: "student",
		session.KeyUser:     `{"id":7,"name":"A"}`,
	})
	if err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if got := st.Get(session.KeyToken); got != "t1" {
		t.Errorf("token = %q, want t1", got)
	}
	if got := st.Get(session.KeyUserType); got != "student" {
		t.Errorf("userType = %q, want student", got)
	}
	if got := st.Get(session.KeyUser); got != `{"id":7,"name":"A"}` {
		t.Errorf("user = %q", got)
	}

	if err := st.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if got := st.Get(session.KeyToken); got != "" {
		t.Errorf("token after Clear() = %q, want empty", got)
	}
	// clearing an already-clear store is fine
	if err := st.Clear(); err != nil {
		t.Errorf("second Clear() failed: %v", err)
	}
}

func TestFileStore_survivesReopen(t *testing.T) {
	st := tempStore(t)
	if err := st.Set(map[string]string{session.KeyToken: "t1"}); err != nil {
		t.Fatal(err)
	}

	reopened := NewFileStore(st.path)
	if got := reopened.Get(session.KeyToken); got != "t1" {
		t.Errorf("token after reopen = %q, want t1", got)
	}
}

func TestFileStore_corruptFileIsNoSession(t *testing.T) {
	st := tempStore(t)
	if err := os.MkdirAll(filepath.Dir(st.path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := ioutil.WriteFile(st.path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if got := st.Get(session.KeyToken); got != "" {
		t.Errorf("Get on corrupt file = %q, want empty", got)
	}
	// a write replaces the corrupt file
	if err := st.Set(map[string]string{session.KeyToken: "t2"}); err != nil {
		t.Fatalf("Set() over corrupt file failed: %v", err)
	}
	if got := st.Get(session.KeyToken); got != "t2" {
		t.Errorf("token = %q, want t2", got)
	}
}

func TestFileStore_fileMode(t *testing.T) {
	st := tempStore(t)
	if err := st.Set(map[string]string{session.KeyToken: "t1"}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(st.path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 600", mode)
	}
}
