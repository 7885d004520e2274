package backendsvc_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/account"
	"github.com/mawere/uniport/core/records"
	"github.com/mawere/uniport/core/session"
	backendsvc "github.com/mawere/uniport/services/backend"
	sessionstore "github.com/mawere/uniport/storage/session"
	testutil "github.com/mawere/uniport/tests"
)

type fixture struct {
	backend *testutil.Backend
	server  *httptest.Server
	store   *sessionstore.MemoryStore
	client  *backendsvc.Client
}

func setup(t *testing.T) *fixture {
	t.Helper()

	backend := testutil.NewBackend()
	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	conf := &core.Config{}
	conf.API.BaseURL = server.URL
	store := sessionstore.NewMemoryStore()

	return &fixture{
		backend: backend,
		server:  server,
		store:   store,
		client:  backendsvc.NewClient(conf, store, nil),
	}
}

// signIn seeds an account and stores its token so authenticated calls work.
func (f *fixture) signIn(t *testing.T, userType string) *testutil.Account {
	t.Helper()
	acct := f.backend.SeedAccount("admin@uni.ac.zw", "secret", userType, map[string]interface{}{
		"id": 1, "name": "Admin", "email": "admin@uni.ac.zw",
	})
	err := session.Save(f.store, f.backend.Token(acct), session.Role(userType), `{"id":1,"name":"Admin"}`)
	if err != nil {
		t.Fatal(err)
	}
	return acct
}

func TestClient_Login(t *testing.T) {
	f := setup(t)
	f.backend.SeedAccount("rudo@uni.ac.zw", "secret", "student", map[string]interface{}{
		"id": 7, "name": "Rudo", "programmeCode": "CS001",
	})

	ctx := context.Background()

	t.Run("known account", func(t *testing.T) {
		res, err := f.client.Login(ctx, account.Credentials{
			Email: "rudo@uni.ac.zw", Password: "secret", UserType: "student",
		})
		assert.NoError(t, err)
		assert.True(t, res.Success)
		assert.NotEmpty(t, res.Token)
		assert.Equal(t, "student", res.UserType)
		assert.Contains(t, string(res.User), `"name":"Rudo"`)
	})

	t.Run("wrong password is a refusal with the server wording", func(t *testing.T) {
		_, err := f.client.Login(ctx, account.Credentials{
			Email: "rudo@uni.ac.zw", Password: "nope", UserType: "student",
		})
		apiErr, ok := err.(*core.APIError)
		if assert.True(t, ok, "expected *core.APIError, got %T", err) {
			assert.Equal(t, "Invalid email or password", apiErr.Message)
		}
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		conf := &core.Config{}
		conf.API.BaseURL = "http://127.0.0.1:1"
		down := backendsvc.NewClient(conf, sessionstore.NewMemoryStore(), nil)

		_, err := down.Login(ctx, account.Credentials{Email: "a@b.c", Password: "x"})
		_, ok := err.(*core.NetworkError)
		assert.True(t, ok, "expected *core.NetworkError, got %T", err)
	})
}

func TestClient_VerifyToken(t *testing.T) {
	f := setup(t)
	acct := f.backend.SeedAccount("rudo@uni.ac.zw", "secret", "student", nil)

	ctx := context.Background()

	valid, err := f.client.VerifyToken(ctx, f.backend.Token(acct))
	assert.NoError(t, err)
	assert.True(t, valid)

	valid, err = f.client.VerifyToken(ctx, f.backend.ExpiredToken(acct))
	assert.NoError(t, err)
	assert.False(t, valid)

	valid, err = f.client.VerifyToken(ctx, "garbage")
	assert.NoError(t, err)
	assert.False(t, valid)
}

// A positive verdict on a non-success status is no verdict at all: the caller
// must stay indeterminate rather than trust it.
func TestClient_VerifyToken_positiveVerdictNeedsSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"valid":true}`))
	}))
	t.Cleanup(server.Close)

	conf := &core.Config{}
	conf.API.BaseURL = server.URL
	client := backendsvc.NewClient(conf, sessionstore.NewMemoryStore(), nil)

	_, err := client.VerifyToken(context.Background(), "t1")
	apiErr, ok := err.(*core.APIError)
	if assert.True(t, ok, "expected *core.APIError, got %T", err) {
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	}

	// through the guard this is indeterminate, not authenticated, and the
	// stored session stays put
	store := sessionstore.NewMemoryStore()
	err = session.Save(store, "t1", session.RoleStudent, `{"id":7,"name":"A"}`)
	assert.NoError(t, err)
	before := store.Snapshot()

	guard := session.NewGuard(store, backendsvc.NewClient(conf, store, nil), nil)
	res := guard.Evaluate(context.Background(), session.RoleStudent)
	assert.Equal(t, session.StatusIndeterminate, res.Status)
	assert.Equal(t, before, store.Snapshot())
}

func TestClient_RegisterStudent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	reg := account.StudentRegistration{
		AccountType:   account.AccountTypeStudent,
		Name:          "Rudo Moyo",
		DateOfBirth:   "2004-03-14",
		ProgrammeCode: "CS001",
		YearEnrolled:  2024,
		Email:         "rudo@uni.ac.zw",
		Password:      "s3cret-pw",
	}
	res, err := f.client.RegisterStudent(ctx, reg)
	assert.NoError(t, err)
	assert.True(t, res.Success)

	// second submission hits the duplicate check
	_, err = f.client.RegisterStudent(ctx, reg)
	apiErr, ok := err.(*core.APIError)
	if assert.True(t, ok, "expected *core.APIError, got %T", err) {
		assert.Equal(t, "Email already registered", apiErr.Message)
	}
}

func TestClient_StudentCRUD(t *testing.T) {
	f := setup(t)
	f.signIn(t, "admin")
	ctx := context.Background()

	err := f.client.CreateStudent(ctx, backendsvc.StudentForm{
		Name:          "Rudo Moyo",
		DateOfBirth:   "2004-03-14",
		Email:         "rudo@uni.ac.zw",
		ProgrammeCode: "CS001",
		YearEnrolled:  2024,
		Password:      "s3cret-pw",
	})
	assert.NoError(t, err)

	students, err := f.client.Students(ctx)
	assert.NoError(t, err)
	if !assert.Len(t, students, 1) {
		return
	}
	id := students[0].ID
	assert.Equal(t, "Rudo Moyo", students[0].Name)

	err = f.client.UpdateStudent(ctx, id, backendsvc.StudentForm{
		Name:          "Rudo M. Moyo",
		DateOfBirth:   "2004-03-14",
		Email:         "rudo@uni.ac.zw",
		ProgrammeCode: "CS002",
		YearEnrolled:  2024,
	})
	assert.NoError(t, err)

	student, err := f.client.Student(ctx, id)
	assert.NoError(t, err)
	assert.Equal(t, "Rudo M. Moyo", student.Name)
	assert.Equal(t, "CS002", student.ProgrammeCode)

	assert.NoError(t, f.client.DeleteStudent(ctx, id))
	students, err = f.client.Students(ctx)
	assert.NoError(t, err)
	assert.Empty(t, students)

	_, err = f.client.Student(ctx, id)
	apiErr, ok := err.(*core.APIError)
	if assert.True(t, ok) {
		assert.Equal(t, "Student not found", apiErr.Message)
	}
}

func TestClient_unauthenticatedCallIsRefused(t *testing.T) {
	f := setup(t)

	_, err := f.client.Students(context.Background())
	_, ok := err.(*core.APIError)
	assert.True(t, ok, "expected *core.APIError, got %T", err)
}

func TestClient_ModulesAndEnrollments(t *testing.T) {
	f := setup(t)
	f.signIn(t, "admin")
	ctx := context.Background()

	student := f.backend.SeedStudent(records.Student{Name: "Rudo", ProgrammeCode: "CS001", YearEnrolled: 2024})

	err := f.client.CreateModule(ctx, backendsvc.ModuleForm{
		Code:            "CS101",
		Name:            "Intro to Programming",
		CreditHours:     12,
		YearLevel:       1,
		SemesterOffered: null.IntFrom(1),
		ProgrammeCode:   "CS001",
	})
	assert.NoError(t, err)

	modules, err := f.client.Modules(ctx)
	assert.NoError(t, err)
	assert.Len(t, modules, 1)

	err = f.client.CreateEnrollment(ctx, backendsvc.EnrollmentForm{
		StudentID: student.ID, ModuleCode: "CS101", SemesterCode: "S20251",
	})
	assert.NoError(t, err)

	// enrolling twice for the same semester is refused
	err = f.client.CreateEnrollment(ctx, backendsvc.EnrollmentForm{
		StudentID: student.ID, ModuleCode: "CS101", SemesterCode: "S20251",
	})
	assert.Error(t, err)

	enrollments, err := f.client.StudentEnrollments(ctx, student.ID)
	assert.NoError(t, err)
	if !assert.Len(t, enrollments, 1) {
		return
	}
	assert.False(t, enrollments[0].Mark.Valid)

	err = f.client.SetMark(ctx, enrollments[0].ID, 72.5)
	assert.NoError(t, err)

	enrollments, err = f.client.StudentEnrollments(ctx, student.ID)
	assert.NoError(t, err)
	assert.Equal(t, 72.5, enrollments[0].Mark.Float64)
	assert.Equal(t, "B", records.Grade(enrollments[0].Mark))

	semesters, err := f.client.Semesters(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, semesters)
}

func TestClient_SetMark_rangeCheckedLocally(t *testing.T) {
	f := setup(t)
	before := f.backend.Requests()

	err := f.client.SetMark(context.Background(), 1, 101)
	var vErr *core.ValidationError
	assert.True(t, errors.As(err, &vErr), "expected *core.ValidationError, got %T", err)
	assert.Equal(t, before, f.backend.Requests(), "out-of-range mark must not reach the server")

	err = f.client.SetMark(context.Background(), 1, -0.5)
	assert.True(t, errors.As(err, &vErr), "expected *core.ValidationError, got %T", err)
}

func TestClient_Reports(t *testing.T) {
	f := setup(t)
	f.signIn(t, "admin")
	ctx := context.Background()

	student := f.backend.SeedStudent(records.Student{Name: "Rudo"})

	var buf bytes.Buffer
	n, err := f.client.SemesterReport(ctx, student.ID, "S20251", &buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(len(testutil.PDFStub)), n)
	assert.Equal(t, testutil.PDFStub, buf.Bytes())

	buf.Reset()
	_, err = f.client.AcademicRecord(ctx, student.ID, 2025, &buf)
	assert.NoError(t, err)
	assert.Equal(t, testutil.PDFStub, buf.Bytes())

	buf.Reset()
	_, err = f.client.Transcript(ctx, student.ID, &buf)
	assert.NoError(t, err)
	assert.Equal(t, testutil.PDFStub, buf.Bytes())

	// unknown student gets the server's message, not a PDF
	_, err = f.client.Transcript(ctx, 9999, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestClient_Catalog(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	programmes, err := f.client.Programmes(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, programmes)

	faculties, err := f.client.Faculties(ctx)
	assert.NoError(t, err)
	assert.NotEmpty(t, faculties)

	// the student-form dropdown source serves the same catalog
	f.signIn(t, "admin")
	list, err := f.client.ProgrammesList(ctx)
	assert.NoError(t, err)
	assert.Equal(t, programmes, list)
}
