package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/mawere/uniport/core"
	"github.com/mawere/uniport/core/account"
	"github.com/mawere/uniport/core/catalog"
	"github.com/mawere/uniport/core/session"
	backendsvc "github.com/mawere/uniport/services/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	sleepFunc        = time.Sleep        // mockable
	nowFunc          = time.Now          // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	out      io.Writer
	store    session.Store
	api      *backendsvc.Client
	accounts *account.Service
	catalog  catalog.Catalog
	guard    *session.Guard
	log      core.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -email EMAIL [-as student|admin]      - sign in; password is prompted")
	fmt.Fprintln(cli.out, "  register student|admin [flags]              - create an account")
	fmt.Fprintln(cli.out, "  logout                                      - clear the saved session")
	fmt.Fprintln(cli.out, "  home                                        - landing status")
	fmt.Fprintln(cli.out, "  student overview|modules|marks|report ...   - student dashboard")
	fmt.Fprintln(cli.out, "  admin students|modules|enroll|marks|reports - admin dashboard")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()

	switch args[1] {
	case "login":
		return cli.login(ctx, args[2:])
	case "register":
		return cli.register(ctx, args[2:])
	case "logout":
		return cli.logout()
	case "home":
		return cli.home(ctx)
	case "student":
		return cli.student(ctx, args[2:])
	case "admin":
		return cli.admin(ctx, args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// promptPassword reads a password without echo.
func promptPassword(out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// errorPanel renders a gate failure in place. Dashboards never redirect on a
// failed check; the viewer chooses the next move.
func (cli *commandLine) errorPanel(res session.Result, required session.Role) {
	switch res.Status {
	case session.StatusRejected:
		fmt.Fprintf(cli.out, "Access denied: %s.\n", res.Reason)
	case session.StatusIndeterminate:
		fmt.Fprintln(cli.out, account.MsgConnectionFailed)
		fmt.Fprintln(cli.out, "Your saved session was kept; try again once the server is reachable.")
	}
	fmt.Fprintf(cli.out, "You can: log in (`login -as %s`) or go home (`home`).\n", required)
}

// gate runs the auth checks for a dashboard command and reports whether the
// page may render.
func (cli *commandLine) gate(ctx context.Context, required session.Role) (session.Identity, bool) {
	res := cli.guard.Evaluate(ctx, required)
	if res.Status != session.StatusAuthenticated {
		cli.errorPanel(res, required)
		return session.Identity{}, false
	}
	return res.Identity, true
}

// printExchangeErr shows validation failures field by field and everything
// else as the ready-made message.
func (cli *commandLine) printExchangeErr(err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		for _, fe := range vErr.Fields {
			fmt.Fprintf(cli.out, "%s: %s\n", fe.Field, fe.Error)
		}
		return
	}
	fmt.Fprintln(cli.out, err.Error())
}
