package testutil

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/mawere/uniport/core/records"
)

var jwtSigningKey = []byte("uniport-test-secret")

// Claims is the token payload the fake backend signs and verifies.
type Claims struct {
	jwt.StandardClaims
	Email    string `json:"email,omitempty"`
	UserType string `json:"userType,omitempty"`
}

type Account struct {
	ID           int
	Email        string
	PasswordHash []byte
	UserType     string
	Identity     map[string]interface{} // serialized as the login "user" field
}

// Backend is an in-memory student-records API for client tests. State is
// mutable through the same endpoints the real backend exposes.
type Backend struct {
	app *echo.Echo

	mu          sync.Mutex
	requests    int
	nextID      int
	accounts    map[string]*Account // by email
	students    []records.Student
	modules     []records.Module
	enrollments []records.Enrollment
	semesters   []records.Semester
	programmes  []records.Programme
	faculties   []records.Faculty
}

func NewBackend() *Backend {
	b := &Backend{
		app:      echo.New(),
		nextID:   1000,
		accounts: make(map[string]*Account),
		semesters: []records.Semester{
			{Code: "S20251", AcademicYear: 2025, Number: 1},
			{Code: "S20252", AcademicYear: 2025, Number: 2},
		},
		programmes: []records.Programme{
			{Code: "CS001", Name: "BSc Computer Science", FacultyName: "Faculty of Computer Science"},
			{Code: "EN001", Name: "BEng Civil Engineering", FacultyName: "Faculty of Engineering"},
		},
		faculties: []records.Faculty{
			{Code: "FCS", Name: "Faculty of Computer Science"},
			{Code: "FEN", Name: "Faculty of Engineering"},
		},
	}
	b.setup()
	return b
}

func (b *Backend) setup() {
	b.app.Logger.SetLevel(log.OFF)
	b.app.HideBanner = true
	b.app.Pre(middleware.RemoveTrailingSlash())
	b.app.Use(b.countRequests)

	api := b.app.Group("/api")
	api.POST("/auth/login", b.login)
	api.POST("/auth/register", b.register)
	api.GET("/auth/verify", b.verify)
	api.GET("/programmes", b.listProgrammes)
	api.GET("/programmes/faculties", b.listFaculties)

	jwtmw := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    jwtSigningKey,
		SigningMethod: middleware.AlgorithmHS256,
		Claims:        new(Claims),
	})
	auth := api.Group("", jwtmw)
	auth.GET("/students", b.listStudents)
	auth.GET("/students/programmes/list", b.listProgrammes)
	auth.GET("/students/:id", b.getStudent)
	auth.POST("/students", b.createStudent)
	auth.PUT("/students/:id", b.updateStudent)
	auth.DELETE("/students/:id", b.deleteStudent)
	auth.GET("/modules", b.listModules)
	auth.POST("/modules", b.createModule)
	auth.GET("/enrollments", b.listEnrollments)
	auth.GET("/enrollments/semesters", b.listSemesters)
	auth.GET("/enrollments/student/:id", b.listStudentEnrollments)
	auth.POST("/enrollments", b.createEnrollment)
	auth.PUT("/enrollments/marks", b.setMark)
	auth.GET("/reports/semester/:id/:code", b.report)
	auth.GET("/reports/academic/:id/:year", b.report)
	auth.GET("/reports/transcript/:id", b.report)
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.app.ServeHTTP(w, r)
}

func (b *Backend) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		b.mu.Lock()
		b.requests++
		b.mu.Unlock()
		return next(ctx)
	}
}

// Requests reports how many HTTP requests the backend has seen.
func (b *Backend) Requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

// SeedAccount registers an account directly, bypassing the API.
func (b *Backend) SeedAccount(email, pwd, userType string, identity map[string]interface{}) *Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	acct := &Account{
		ID:           b.nextID,
		Email:        email,
		PasswordHash: hash,
		UserType:     userType,
		Identity:     identity,
	}
	b.accounts[email] = acct
	return acct
}

// SeedStudent inserts a student row directly.
func (b *Backend) SeedStudent(s records.Student) records.Student {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.ID == 0 {
		b.nextID++
		s.ID = b.nextID
	}
	b.students = append(b.students, s)
	return s
}

func (b *Backend) SeedModule(m records.Module) records.Module {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modules = append(b.modules, m)
	return m
}

func (b *Backend) SeedEnrollment(e records.Enrollment) records.Enrollment {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.ID == 0 {
		b.nextID++
		e.ID = b.nextID
	}
	b.enrollments = append(b.enrollments, e)
	return e
}

// EnrollmentsFor returns a student's enrollments, bypassing the API.
func (b *Backend) EnrollmentsFor(studentID int) []records.Enrollment {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []records.Enrollment
	for _, e := range b.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out
}

// Token signs a JWT for an account the way the real backend does.
func (b *Backend) Token(acct *Account) string {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.Itoa(acct.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Hour).Unix(),
		},
		Email:    acct.Email,
		UserType: acct.UserType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(jwtSigningKey)
	if err != nil {
		panic(err)
	}
	return ss
}

// ExpiredToken signs a token whose expiry is already in the past.
func (b *Backend) ExpiredToken(acct *Account) string {
	past := time.Now().Add(-2 * time.Hour)
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.Itoa(acct.ID),
			IssuedAt:  past.Unix(),
			ExpiresAt: past.Add(time.Hour).Unix(),
		},
		Email:    acct.Email,
		UserType: acct.UserType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(jwtSigningKey)
	if err != nil {
		panic(err)
	}
	return ss
}

// --- auth handlers ---

func (b *Backend) login(ctx echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		UserType string `json:"userType"`
	}
	if err := ctx.Bind(&body); err != nil {
		return err
	}

	b.mu.Lock()
	acct, ok := b.accounts[body.Email]
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(body.Password)) != nil {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{
			"success": false,
			"message": "Invalid email or password",
		})
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"token":    b.Token(acct),
		"userType": acct.UserType, // server-side role wins over the requested one
		"user":     acct.Identity,
	})
}

func (b *Backend) register(ctx echo.Context) error {
	var body struct {
		AccountType   string `json:"accountType"`
		StudentName   string `json:"studentName"`
		AdminName     string `json:"adminName"`
		DateOfBirth   string `json:"dateOfBirth"`
		ContactNumber string `json:"contactNumber"`
		ProgrammeCode string `json:"programmeCode"`
		YearEnrolled  int    `json:"yearEnrolled"`
		Faculty       string `json:"faculty"`
		Email         string `json:"email"`
		Password      string `json:"password"`
	}
	if err := ctx.Bind(&body); err != nil {
		return err
	}

	b.mu.Lock()
	_, exists := b.accounts[body.Email]
	b.mu.Unlock()
	if exists {
		return ctx.JSON(http.StatusConflict, echo.Map{
			"success": false,
			"message": "Email already registered",
		})
	}

	name := body.StudentName
	identity := map[string]interface{}{"name": name, "email": body.Email, "programmeCode": body.ProgrammeCode}
	if body.AccountType == "admin" {
		name = body.AdminName
		identity = map[string]interface{}{"name": name, "email": body.Email, "faculty": body.Faculty}
	}
	acct := b.SeedAccount(body.Email, body.Password, body.AccountType, identity)
	identity["id"] = acct.ID

	if body.AccountType == "student" {
		b.SeedStudent(records.Student{
			ID:            acct.ID,
			Name:          body.StudentName,
			DateOfBirth:   body.DateOfBirth,
			Email:         body.Email,
			ContactNumber: body.ContactNumber,
			ProgrammeCode: body.ProgrammeCode,
			YearEnrolled:  body.YearEnrolled,
		})
	}
	return ctx.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Account created successfully!",
	})
}

func (b *Backend) verify(ctx echo.Context) error {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(auth) <= len(prefix) {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"valid": false})
	}
	token, err := jwt.ParseWithClaims(auth[len(prefix):], new(Claims), func(t *jwt.Token) (interface{}, error) {
		return jwtSigningKey, nil
	})
	if err != nil || !token.Valid {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"valid": false})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"valid": true})
}

// --- record handlers ---

func (b *Backend) listStudents(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, b.students)
}

func (b *Backend) getStudent(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.students {
		if s.ID == id {
			return ctx.JSON(http.StatusOK, s)
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": "Student not found"})
}

type studentForm struct {
	Name          string `json:"studentName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Email         string `json:"emailAddress"`
	ContactNumber string `json:"contactNumber"`
	ProgrammeCode string `json:"programmeCode"`
	YearEnrolled  int    `json:"yearEnrolled"`
	Password      string `json:"password"`
}

func (b *Backend) createStudent(ctx echo.Context) error {
	var form studentForm
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	b.SeedStudent(records.Student{
		Name:          form.Name,
		DateOfBirth:   form.DateOfBirth,
		Email:         form.Email,
		ContactNumber: form.ContactNumber,
		ProgrammeCode: form.ProgrammeCode,
		YearEnrolled:  form.YearEnrolled,
	})
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Student created successfully"})
}

func (b *Backend) updateStudent(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	var form studentForm
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.students {
		if b.students[i].ID == id {
			b.students[i].Name = form.Name
			b.students[i].DateOfBirth = form.DateOfBirth
			b.students[i].Email = form.Email
			b.students[i].ContactNumber = form.ContactNumber
			b.students[i].ProgrammeCode = form.ProgrammeCode
			b.students[i].YearEnrolled = form.YearEnrolled
			return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Student updated successfully"})
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": "Student not found"})
}

func (b *Backend) deleteStudent(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.students {
		if b.students[i].ID == id {
			b.students = append(b.students[:i], b.students[i+1:]...)
			return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Student deleted successfully"})
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": "Student not found"})
}

func (b *Backend) listModules(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, b.modules)
}

func (b *Backend) createModule(ctx echo.Context) error {
	var form struct {
		Code            string   `json:"moduleCode"`
		Name            string   `json:"moduleName"`
		Description     string   `json:"moduleDescription"`
		CreditHours     int      `json:"creditHours"`
		YearLevel       int      `json:"yearLevel"`
		SemesterOffered null.Int `json:"semesterOffered"`
		ProgrammeCode   string   `json:"programmeCode"`
	}
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	b.mu.Lock()
	for _, m := range b.modules {
		if m.Code == form.Code {
			b.mu.Unlock()
			return ctx.JSON(http.StatusConflict, echo.Map{"message": "Module code already exists"})
		}
	}
	b.mu.Unlock()
	b.SeedModule(records.Module{
		Code:            form.Code,
		Name:            form.Name,
		Description:     form.Description,
		CreditHours:     form.CreditHours,
		YearLevel:       form.YearLevel,
		SemesterOffered: form.SemesterOffered,
		ProgrammeCode:   form.ProgrammeCode,
	})
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Module created successfully"})
}

func (b *Backend) listEnrollments(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, b.enrollments)
}

func (b *Backend) listStudentEnrollments(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]records.Enrollment, 0)
	for _, e := range b.enrollments {
		if e.StudentID == id {
			out = append(out, e)
		}
	}
	return ctx.JSON(http.StatusOK, out)
}

func (b *Backend) createEnrollment(ctx echo.Context) error {
	var form struct {
		StudentID    int    `json:"studentId"`
		ModuleCode   string `json:"moduleCode"`
		SemesterCode string `json:"semesterCode"`
	}
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	b.mu.Lock()
	for _, e := range b.enrollments {
		if e.StudentID == form.StudentID && e.ModuleCode == form.ModuleCode && e.SemesterCode == form.SemesterCode {
			b.mu.Unlock()
			return ctx.JSON(http.StatusConflict, echo.Map{"message": "Student is already enrolled in this module for this semester"})
		}
	}
	b.mu.Unlock()
	b.SeedEnrollment(records.Enrollment{
		StudentID:    form.StudentID,
		ModuleCode:   form.ModuleCode,
		SemesterCode: form.SemesterCode,
		Status:       "Enrolled",
	})
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Enrollment created successfully"})
}

func (b *Backend) setMark(ctx echo.Context) error {
	var form struct {
		EnrollmentID int     `json:"enrollmentId"`
		MarkObtained float64 `json:"markObtained"`
	}
	if err := ctx.Bind(&form); err != nil {
		return err
	}
	if form.MarkObtained < 0 || form.MarkObtained > 100 {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "Mark must be between 0 and 100"})
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.enrollments {
		if b.enrollments[i].ID == form.EnrollmentID {
			b.enrollments[i].Mark = null.Float64From(form.MarkObtained)
			return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Mark updated successfully"})
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": "Enrollment not found"})
}

func (b *Backend) listSemesters(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, b.semesters)
}

func (b *Backend) listProgrammes(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, b.programmes)
}

func (b *Backend) listFaculties(ctx echo.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ctx.JSON(http.StatusOK, b.faculties)
}

// PDFStub is what the report endpoints serve; enough bytes to assert a
// download round-trips intact.
var PDFStub = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")

func (b *Backend) report(ctx echo.Context) error {
	id, _ := strconv.Atoi(ctx.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.students {
		if s.ID == id {
			return ctx.Blob(http.StatusOK, "application/pdf", PDFStub)
		}
	}
	return ctx.JSON(http.StatusNotFound, echo.Map{"message": fmt.Sprintf("No records found for student %d", id)})
}
