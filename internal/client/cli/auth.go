package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/client/client"
	"github.com/dmitrijs2005/filereview/internal/common"
	"github.com/dmitrijs2005/filereview/internal/netx"
)

// Signup prompts for the account fields and creates the account. It does
// not log the user in.
func (a *App) Signup(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := GetPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	acc, err := a.client.Signup(ctx, client.SignupRequest{
		Username:        username,
		Email:           email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
	})
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "Account %q created. You can now log in.\n", acc.Username)
	return nil
}

// Login accepts a username or an email address. A second login replaces
// the current user.
func (a *App) Login(ctx context.Context) error {
	identifier, err := GetSimpleText(a.reader, "Username or email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	username, err := a.client.Login(ctx, identifier, string(password))
	if errors.Is(err, client.ErrUnauthorized) {
		fmt.Fprintln(a.out, "Error: Invalid login credentials.")
		return err
	}
	if err != nil {
		a.reportError(err)
		return err
	}

	a.userName = username
	fmt.Fprintf(a.out, "Logged in as %s.\n", username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// reportError prints the server's message when there is one. An expired
// token drops the local login so the prompt reflects it.
func (a *App) reportError(err error) {
	var se *netx.StatusError
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if a.isLoggedIn() {
			a.userName = ""
			a.client.Logout()
			fmt.Fprintln(a.out, "Error: session expired, please log in again.")
			return
		}
		fmt.Fprintln(a.out, "Error: Invalid login credentials.")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Error: server unavailable.")
	case errors.As(err, &se):
		fmt.Fprintf(a.out, "Error: %s\n", se.Message)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}
