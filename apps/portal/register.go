package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/mawere/uniport/core/account"
)

func (cli *commandLine) register(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}
	switch args[0] {
	case "student":
		return cli.registerStudent(ctx, args[1:])
	case "admin":
		return cli.registerAdmin(ctx, args[1:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) registerStudent(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("register student", flag.ExitOnError)
	name := cmd.String("name", "", "Full name")
	dob := cmd.String("dob", "", "Date of birth (YYYY-MM-DD)")
	contact := cmd.String("contact", "", "Contact number (optional)")
	programme := cmd.String("programme", "", "Programme code")
	year := cmd.Int("year", 0, "Year enrolled")
	email := cmd.String("email", "", "Email address")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	cli.printProgrammes(ctx)

	pwd, confirm, err := promptNewPassword(cli.out)
	if err != nil {
		return err
	}

	reg := account.StudentRegistration{
		Name:            *name,
		DateOfBirth:     *dob,
		ContactNumber:   *contact,
		ProgrammeCode:   *programme,
		YearEnrolled:    *year,
		Email:           *email,
		Password:        pwd,
		ConfirmPassword: confirm,
	}
	for _, warning := range account.PasswordWarnings(pwd, *name, *email) {
		fmt.Fprintln(cli.out, warning)
	}

	msg, err := cli.accounts.RegisterStudent(ctx, reg)
	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	fmt.Fprintln(cli.out, msg)
	return nil
}

func (cli *commandLine) registerAdmin(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("register admin", flag.ExitOnError)
	name := cmd.String("name", "", "Full name")
	faculty := cmd.String("faculty", "", "Faculty name")
	email := cmd.String("email", "", "Email address")
	if err := cmd.Parse(args); err != nil {
		return err
	}

	cli.printFaculties(ctx)

	pwd, confirm, err := promptNewPassword(cli.out)
	if err != nil {
		return err
	}

	reg := account.AdminRegistration{
		Name:            *name,
		Faculty:         *faculty,
		Email:           *email,
		Password:        pwd,
		ConfirmPassword: confirm,
	}
	for _, warning := range account.PasswordWarnings(pwd, *name, *email) {
		fmt.Fprintln(cli.out, warning)
	}

	msg, err := cli.accounts.RegisterAdmin(ctx, reg)
	if err != nil {
		cli.printExchangeErr(err)
		return err
	}
	fmt.Fprintln(cli.out, msg)
	return nil
}

// printProgrammes shows the programme choices; stock defaults appear when the
// catalog endpoint is down.
func (cli *commandLine) printProgrammes(ctx context.Context) {
	programmes, err := cli.catalog.Programmes(ctx)
	if err != nil {
		return
	}
	fmt.Fprintln(cli.out, "Programmes:")
	for _, p := range programmes {
		fmt.Fprintf(cli.out, "  %s  %s (%s)\n", p.Code, p.Name, p.FacultyName)
	}
}

func (cli *commandLine) printFaculties(ctx context.Context) {
	faculties, err := cli.catalog.Faculties(ctx)
	if err != nil {
		return
	}
	fmt.Fprintln(cli.out, "Faculties:")
	for _, f := range faculties {
		fmt.Fprintf(cli.out, "  %s  %s\n", f.Code, f.Name)
	}
}

func promptNewPassword(out io.Writer) (pwd, confirm string, err error) {
	if pwd, err = promptPassword(out, "Enter password:"); err != nil {
		return
	}
	confirm, err = promptPassword(out, "Confirm password:")
	return
}
