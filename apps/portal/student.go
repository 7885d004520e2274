package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mawere/uniport/apps"
	"github.com/mawere/uniport/core/records"
	"github.com/mawere/uniport/core/session"
)

// student is the student dashboard. Every subcommand is gated on a
// student-role session; failures render the in-page panel and never redirect.
func (cli *commandLine) student(ctx context.Context, args []string) error {
	ident, ok := cli.gate(ctx, session.RoleStudent)
	if !ok {
		return nil
	}
	if len(args) < 1 {
		args = []string{"overview"}
	}

	switch args[0] {
	case "overview":
		return cli.studentOverview(ctx, ident)
	case "modules":
		return cli.studentModules(ctx, ident)
	case "marks":
		return cli.studentMarks(ctx, ident)
	case "report":
		return cli.studentReport(ctx, ident, args[1:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) studentOverview(ctx context.Context, ident session.Identity) error {
	fmt.Fprintf(cli.out, "Student dashboard: %s\n", ident.Name)

	student, err := cli.api.Student(ctx, ident.ID)
	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	fmt.Fprintf(cli.out, "Programme: %s", student.ProgrammeCode)
	if student.ProgrammeName != "" {
		fmt.Fprintf(cli.out, " (%s)", student.ProgrammeName)
	}
	fmt.Fprintf(cli.out, "\nEnrolled: %d\nEmail: %s\n", student.YearEnrolled, student.Email)
	fmt.Fprintf(cli.out, "Current semester: %s\n", records.CurrentSemesterCode(nowFunc()))
	return nil
}

func (cli *commandLine) studentModules(ctx context.Context, ident session.Identity) error {
	enrollments, err := cli.api.StudentEnrollments(ctx, ident.ID)
	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	if len(enrollments) == 0 {
		fmt.Fprintln(cli.out, "No enrollments yet.")
		return nil
	}
	for _, e := range enrollments {
		fmt.Fprintf(cli.out, "%-8s %-30s %s\n", e.ModuleCode, e.ModuleName, e.SemesterCode)
	}
	return nil
}

// studentMarks lists graded enrollments only; ungraded ones have nothing to
// show yet.
func (cli *commandLine) studentMarks(ctx context.Context, ident session.Identity) error {
	enrollments, err := cli.api.StudentEnrollments(ctx, ident.ID)
	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	graded := records.Graded(enrollments)
	if len(graded) == 0 {
		fmt.Fprintln(cli.out, "No marks recorded yet.")
		return nil
	}
	for _, e := range graded {
		fmt.Fprintf(cli.out, "%-8s %-30s %6.1f  %s\n", e.ModuleCode, e.ModuleName, e.Mark.Float64, records.Grade(e.Mark))
	}
	return nil
}

func (cli *commandLine) studentReport(ctx context.Context, ident session.Identity, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(cli.out, "report semester CODE | report academic YEAR | report transcript")
		return errHelp
	}

	var (
		n    int64
		err  error
		dest string
	)
	switch args[0] {
	case "semester":
		code := records.CurrentSemesterCode(nowFunc())
		if len(args) > 1 {
			code = args[1]
		}
		dest = fmt.Sprintf("semester-report-%s.pdf", code)
		n, err = cli.download(dest, func(f *os.File) (int64, error) {
			return cli.api.SemesterReport(ctx, ident.ID, code, f)
		})
	case "academic":
		if len(args) < 2 {
			fmt.Fprintln(cli.out, "report academic YEAR")
			return errHelp
		}
		var year int
		if _, convErr := fmt.Sscanf(args[1], "%d", &year); convErr != nil {
			return apps.NewArgumentError(fmt.Sprintf("year must be a number (got %q)", args[1]))
		}
		dest = fmt.Sprintf("academic-record-%d.pdf", year)
		n, err = cli.download(dest, func(f *os.File) (int64, error) {
			return cli.api.AcademicRecord(ctx, ident.ID, year, f)
		})
	case "transcript":
		dest = "transcript.pdf"
		n, err = cli.download(dest, func(f *os.File) (int64, error) {
			return cli.api.Transcript(ctx, ident.ID, f)
		})
	default:
		fmt.Fprintln(cli.out, "report semester CODE | report academic YEAR | report transcript")
		return errHelp
	}

	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	fmt.Fprintf(cli.out, "Saved %s (%d bytes)\n", dest, n)
	return nil
}

// download streams a report into dest, removing the partial file on failure.
func (cli *commandLine) download(dest string, fetch func(*os.File) (int64, error)) (int64, error) {
	f, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	n, err := fetch(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, err
	}
	return n, nil
}
