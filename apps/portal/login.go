package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/mawere/uniport/core/account"
	"github.com/mawere/uniport/core/session"
)

// login signs the viewer in. An already-authenticated viewer is sent straight
// to their dashboard after the configured short delay, the landing-page
// behavior.
func (cli *commandLine) login(ctx context.Context, args []string) error {
	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	email := loginCmd.String("email", "", "Account email. The password will be prompted next.")
	as := loginCmd.String("as", string(session.RoleStudent), "Portal to sign in to: student or admin. Advisory; the server decides.")
	if err := loginCmd.Parse(args); err != nil {
		return err
	}

	if cur := session.Current(cli.store); cur != nil {
		res := cli.guard.Evaluate(ctx, cur.Role)
		if res.Status == session.StatusAuthenticated {
			fmt.Fprintf(cli.out, "Already signed in as %s. Opening the %s dashboard...\n", res.Identity.Name, cur.Role)
			sleepFunc(cli.conf.LoginRedirectDelay)
			return cli.openDashboard(ctx, cur.Role)
		}
	}

	if *email == "" {
		loginCmd.Usage()
		return errHelp
	}
	pwd, err := promptPassword(cli.out, "Enter password:")
	if err != nil {
		return err
	}
	if pwd == "" {
		loginCmd.Usage()
		return errHelp
	}

	sess, err := cli.accounts.Login(ctx, account.Credentials{
		Email:    *email,
		Password: pwd,
		UserType: *as,
	})
	if err != nil {
		cli.printExchangeErr(err)
		return err
	}

	fmt.Fprintf(cli.out, "Welcome, %s!\n", sess.Identity.Name)
	return cli.openDashboard(ctx, sess.Role)
}

// openDashboard routes to the dashboard for role. The role came from the
// server, never from what the viewer asked for.
func (cli *commandLine) openDashboard(ctx context.Context, role session.Role) error {
	switch role {
	case session.RoleAdmin:
		return cli.admin(ctx, []string{"students", "list"})
	default:
		return cli.student(ctx, []string{"overview"})
	}
}

func (cli *commandLine) logout() error {
	if err := cli.accounts.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Signed out.")
	return nil
}

// home is the landing status line.
func (cli *commandLine) home(ctx context.Context) error {
	cur := session.Current(cli.store)
	if cur == nil {
		fmt.Fprintf(cli.out, "Welcome to %s. Use `login` or `register` to get started.\n", cli.conf.AppName)
		return nil
	}

	res := cli.guard.Evaluate(ctx, cur.Role)
	switch res.Status {
	case session.StatusAuthenticated:
		fmt.Fprintf(cli.out, "Signed in as %s (%s). Opening your dashboard...\n", res.Identity.Name, cur.Role)
		sleepFunc(cli.conf.LoginRedirectDelay)
		return cli.openDashboard(ctx, cur.Role)
	case session.StatusIndeterminate:
		fmt.Fprintln(cli.out, "Could not confirm your session right now; it was kept. Try again shortly.")
	default:
		fmt.Fprintf(cli.out, "Welcome to %s. Use `login` or `register` to get started.\n", cli.conf.AppName)
	}
	return nil
}
