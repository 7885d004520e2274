package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/volatiletech/null/v8"

	"github.com/mawere/uniport/core/records"
	"github.com/mawere/uniport/core/session"
	backendsvc "github.com/mawere/uniport/services/backend"
)

// admin is the admin dashboard, gated on an admin-role session.
func (cli *commandLine) admin(ctx context.Context, args []string) error {
	if _, ok := cli.gate(ctx, session.RoleAdmin); !ok {
		return nil
	}
	if len(args) < 1 {
		args = []string{"students", "list"}
	}

	switch args[0] {
	case "students":
		return cli.adminStudents(ctx, args[1:])
	case "modules":
		return cli.adminModules(ctx, args[1:])
	case "enroll":
		return cli.adminEnroll(ctx, args[1:])
	case "marks":
		return cli.adminMarks(ctx, args[1:])
	case "reports":
		return cli.adminReports(ctx, args[1:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) adminStudents(ctx context.Context, args []string) error {
	if len(args) < 1 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		students, err := cli.api.Students(ctx)
		if err != nil {
			cli.printExchangeErr(err)
			return err
		}
		for _, s := range students {
			fmt.Fprintf(cli.out, "%-6d %-25s %-8s %d\n", s.ID, s.Name, s.ProgrammeCode, s.YearEnrolled)
		}
		return nil
	case "add":
		form, err := parseStudentForm("students add", args[1:])
		if err != nil {
			return err
		}
		pwd, err := promptPassword(cli.out, "Initial password:")
		if err != nil {
			return err
		}
		form.Password = pwd
		if err := cli.api.CreateStudent(ctx, form); err != nil {
			cli.printExchangeErr(err)
			return err
		}
		fmt.Fprintln(cli.out, "Student created.")
		return nil
	case "update":
		cmd := flag.NewFlagSet("students update", flag.ExitOnError)
		id := cmd.Int("id", 0, "Student ID")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		rest := cmd.Args()
		form, err := parseStudentForm("students update", rest)
		if err != nil {
			return err
		}
		if *id == 0 {
			cmd.Usage()
			return errHelp
		}
		if err := cli.api.UpdateStudent(ctx, *id, form); err != nil {
			cli.printExchangeErr(err)
			return err
		}
		fmt.Fprintln(cli.out, "Student updated.")
		return nil
	case "delete":
		cmd := flag.NewFlagSet("students delete", flag.ExitOnError)
		id := cmd.Int("id", 0, "Student ID")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			cmd.Usage()
			return errHelp
		}
		if err := cli.api.DeleteStudent(ctx, *id); err != nil {
			cli.printExchangeErr(err)
			return err
		}
		fmt.Fprintln(cli.out, "Student deleted.")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseStudentForm(name string, args []string) (backendsvc.StudentForm, error) {
	cmd := flag.NewFlagSet(name, flag.ExitOnError)
	fname := cmd.String("name", "", "Full name")
	dob := cmd.String("dob", "", "Date of birth (YYYY-MM-DD)")
	email := cmd.String("email", "", "Email address")
	contact := cmd.String("contact", "", "Contact number")
	programme := cmd.String("programme", "", "Programme code")
	year := cmd.Int("year", 0, "Year enrolled")
	if err := cmd.Parse(args); err != nil {
		return backendsvc.StudentForm{}, err
	}
	return backendsvc.StudentForm{
		Name:          *fname,
		DateOfBirth:   *dob,
		Email:         *email,
		ContactNumber: *contact,
		ProgrammeCode: *programme,
		YearEnrolled:  *year,
	}, nil
}

func (cli *commandLine) adminModules(ctx context.Context, args []string) error {
	if len(args) < 1 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		modules, err := cli.api.Modules(ctx)
		if err != nil {
			cli.printExchangeErr(err)
			return err
		}
		for _, m := range modules {
			sem := "any"
			if m.SemesterOffered.Valid {
				sem = fmt.Sprintf("S%d", m.SemesterOffered.Int)
			}
			fmt.Fprintf(cli.out, "%-8s %-30s %d cr  year %d  %s\n", m.Code, m.Name, m.CreditHours, m.YearLevel, sem)
		}
		return nil
	case "add":
		cmd := flag.NewFlagSet("modules add", flag.ExitOnError)
		code := cmd.String("code", "", "Module code")
		mname := cmd.String("name", "", "Module name")
		desc := cmd.String("desc", "", "Description")
		credits := cmd.Int("credits", 0, "Credit hours")
		level := cmd.Int("level", 0, "Year level")
		sem := cmd.Int("semester", 0, "Semester offered (0 for any)")
		programme := cmd.String("programme", "", "Programme code")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		form := backendsvc.ModuleForm{
			Code:          *code,
			Name:          *mname,
			Description:   *desc,
			CreditHours:   *credits,
			YearLevel:     *level,
			ProgrammeCode: *programme,
		}
		if *sem != 0 {
			form.SemesterOffered = null.IntFrom(*sem)
		}
		if err := cli.api.CreateModule(ctx, form); err != nil {
			cli.printExchangeErr(err)
			return err
		}
		fmt.Fprintln(cli.out, "Module created.")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) adminEnroll(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("enroll", flag.ExitOnError)
	studentID := cmd.Int("student", 0, "Student ID")
	module := cmd.String("module", "", "Module code")
	semester := cmd.String("semester", "", "Semester code (defaults to the current one)")
	if err := cmd.Parse(args); err != nil {
		return err
	}
	if *studentID == 0 || *module == "" {
		cmd.Usage()
		return errHelp
	}
	code := *semester
	if code == "" {
		code = records.CurrentSemesterCode(nowFunc())
	}
	if err := cli.api.CreateEnrollment(ctx, backendsvc.EnrollmentForm{
		StudentID:    *studentID,
		ModuleCode:   *module,
		SemesterCode: code,
	}); err != nil {
		cli.printExchangeErr(err)
		return err
	}
	fmt.Fprintf(cli.out, "Enrolled student %d in %s for %s.\n", *studentID, *module, code)
	return nil
}

func (cli *commandLine) adminMarks(ctx context.Context, args []string) error {
	if len(args) < 1 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		enrollments, err := cli.api.Enrollments(ctx)
		if err != nil {
			cli.printExchangeErr(err)
			return err
		}
		for _, e := range enrollments {
			mark := "-"
			if e.Mark.Valid {
				mark = fmt.Sprintf("%.1f", e.Mark.Float64)
			}
			fmt.Fprintf(cli.out, "%-6d %-25s %-8s %-8s %6s  %s\n",
				e.ID, e.StudentName, e.ModuleCode, e.SemesterCode, mark, records.Grade(e.Mark))
		}
		return nil
	case "set":
		cmd := flag.NewFlagSet("marks set", flag.ExitOnError)
		id := cmd.Int("enrollment", 0, "Enrollment ID")
		mark := cmd.Float64("mark", -1, "Mark obtained (0-100)")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *id == 0 {
			cmd.Usage()
			return errHelp
		}
		if err := cli.api.SetMark(ctx, *id, *mark); err != nil {
			cli.printExchangeErr(err)
			return err
		}
		fmt.Fprintln(cli.out, "Mark recorded.")
		return nil
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) adminReports(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("reports", flag.ExitOnError)
	studentID := cmd.Int("student", 0, "Student ID")
	semester := cmd.String("semester", "", "Semester code, for semester reports")
	year := cmd.Int("year", 0, "Academic year, for academic records")
	out := cmd.String("out", "", "Output file (defaults per report type)")

	if len(args) < 1 {
		cmd.Usage()
		return errHelp
	}
	kind := args[0]
	if err := cmd.Parse(args[1:]); err != nil {
		return err
	}
	if *studentID == 0 {
		cmd.Usage()
		return errHelp
	}

	var (
		n    int64
		err  error
		dest = *out
	)
	switch kind {
	case "semester":
		code := *semester
		if code == "" {
			code = records.CurrentSemesterCode(nowFunc())
		}
		if dest == "" {
			dest = fmt.Sprintf("semester-report-%d-%s.pdf", *studentID, code)
		}
		n, err = cli.download(dest, func(f *os.File) (int64, error) {
			return cli.api.SemesterReport(ctx, *studentID, code, f)
		})
	case "academic":
		if *year == 0 {
			cmd.Usage()
			return errHelp
		}
		if dest == "" {
			dest = fmt.Sprintf("academic-record-%d-%d.pdf", *studentID, *year)
		}
		n, err = cli.download(dest, func(f *os.File) (int64, error) {
			return cli.api.AcademicRecord(ctx, *studentID, *year, f)
		})
	case "transcript":
		if dest == "" {
			dest = fmt.Sprintf("transcript-%d.pdf", *studentID)
		}
		n, err = cli.download(dest, func(f *os.File) (int64, error) {
			return cli.api.Transcript(ctx, *studentID, f)
		})
	default:
		cmd.Usage()
		return errHelp
	}

	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	fmt.Fprintf(cli.out, "Saved %s (%d bytes)\n", dest, n)
	return nil
}
