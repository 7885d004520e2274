package records

import (
	"github.com/volatiletech/null/v8"
)

// Wire models for the student-records backend. JSON tags follow the backend's
// column-style field names verbatim.

type Student struct {
	ID            int    `json:"Student_ID"`
	Name          string `json:"Student_Name"`
	DateOfBirth   string `json:"Date_of_Birth"`
	Email         string `json:"Email_Address"`
	ContactNumber string `json:"Contact_Number,omitempty"`
	ProgrammeCode string `json:"Programme_Code"`
	ProgrammeName string `json:"Programme_Name,omitempty"`
	YearEnrolled  int    `json:"Year_Enrolled"`
}

type Module struct {
	Code            string   `json:"Module_Code"`
	Name            string   `json:"Module_Name"`
	Description     string   `json:"Module_Description,omitempty"`
	CreditHours     int      `json:"Credit_Hours"`
	YearLevel       int      `json:"Year_Level"`
	SemesterOffered null.Int `json:"Semester_Offered"`
	ProgrammeCode   string   `json:"Programme_Code"`
}

type Programme struct {
	Code        string `json:"Programme_Code"`
	Name        string `json:"Programme_Name"`
	FacultyName string `json:"Faculty_Name,omitempty"`
}

type Faculty struct {
	Code string `json:"Faculty_Code"`
	Name string `json:"Faculty_Name"`
}

type Semester struct {
	Code         string `json:"Semester_Code"`
	AcademicYear int    `json:"Academic_Year"`
	Number       int    `json:"Semester_Number"`
}

// Enrollment joins a student to a module for a semester. Mark is absent until
// an admin enters it.
type Enrollment struct {
	ID             int          `json:"Enrollment_ID"`
	StudentID      int          `json:"Student_ID"`
	StudentName    string       `json:"Student_Name,omitempty"`
	ModuleCode     string       `json:"Module_Code"`
	ModuleName     string       `json:"Module_Name,omitempty"`
	CreditHours    int          `json:"Credit_Hours,omitempty"`
	SemesterCode   string       `json:"Semester_Code"`
	AcademicYear   int          `json:"Academic_Year,omitempty"`
	SemesterNumber int          `json:"Semester_Number,omitempty"`
	Mark           null.Float64 `json:"Mark_Obtained"`
	Grade          string       `json:"Grade,omitempty"`
	Status         string       `json:"Status,omitempty"`
}

// Graded returns only the enrollments that have a mark entered.
func Graded(enrollments []Enrollment) []Enrollment {
	graded := make([]Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if e.Mark.Valid {
			graded = append(graded, e)
		}
	}
	return graded
}
