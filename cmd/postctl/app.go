package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jrsteele09/post-scheduler/client/api"
	"github.com/jrsteele09/post-scheduler/client/session"
)

const usage = `usage: postctl <command> [email]

commands:
  register [email]  create an account and sign in
  login [email]     sign in
  logout            forget the stored session
  whoami            show the signed in user
  health            check the server is up`

var errUsage = errors.New(usage)

type App struct {
	client  *api.Client
	manager *session.Manager
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(client *api.Client, manager *session.Manager, in io.Reader, out io.Writer) *App {
	return &App{client: client, manager: manager, reader: bufio.NewReader(in), out: out}
}

// Run hydrates the stored session and dispatches a single command.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	if err := a.manager.Hydrate(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "register":
		return a.signIn(ctx, args[1:], a.client.Register, "Registered")
	case "login":
		return a.signIn(ctx, args[1:], a.client.Login, "Signed in")
	case "logout":
		return a.manager.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "health":
		return a.Health(ctx)
	}
	return errUsage
}

type signInFunc func(ctx context.Context, email, password string) (*api.Session, error)

func (a *App) signIn(ctx context.Context, args []string, call signInFunc, verb string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = promptLine(a.reader, "Email", a.out); err != nil {
			return err
		}
	}
	password, err := promptPassword(a.out)
	if err != nil {
		return err
	}

	s, err := call(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.manager.Login(ctx, s.Email, s.Token, s.UserID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s as %s\n", verb, s.Email)
	return nil
}

// WhoAmI asks the server to confirm the stored session.
func (a *App) WhoAmI(ctx context.Context) error {
	switch session.NewGuard(a.manager).Evaluate(ctx) {
	case session.DecisionRender:
	case session.DecisionWait:
		return errors.New("session is incomplete, run postctl logout and sign in again")
	default:
		return nil
	}

	identity, err := a.client.Me(ctx)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) && apiErr.Status == 401 {
			fmt.Fprintf(a.out, "Stored session was rejected: %s\n", apiErr.Message)
			return a.manager.Logout(ctx)
		}
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", identity.Email, identity.UserID)
	return nil
}

func (a *App) Health(ctx context.Context) error {
	if err := a.client.Health(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "ok")
	return nil
}

// terminalNavigator turns view changes into hints for the user.
type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) HardRedirect(path string) {
	if path == session.LoginPath {
		fmt.Fprintln(n.out, "Signed out. Run postctl login to sign in again.")
	}
}

func (n terminalNavigator) Navigate(path string) {
	if path == session.LoginPath {
		fmt.Fprintln(n.out, "Not signed in. Run postctl login.")
	}
}
