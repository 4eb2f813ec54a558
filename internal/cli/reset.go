package cli

import (
	"context"
	"os"
)

// Reset walks both halves of the password recovery flow: request a code
// for a username, then complete with the code and a new password. The
// code prints to the terminal, standing in for an out-of-band channel,
// and the prompts are the same whether or not the account exists.
func (a *App) Reset(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	code, err := a.ids.InitiateReset(ctx, username)
	if err != nil {
		printlnFn("Reset request failed:", err)
		return err
	}
	if code != "" {
		printlnFn("Reset code:", code)
	}

	entered, err := getSimpleText(a.reader, "Enter the reset code", os.Stdout)
	if err != nil {
		return err
	}
	newPassword, err := getPassword("Enter a new password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ids.CompleteReset(ctx, username, entered, newPassword); err != nil {
		printlnFn("Reset failed:", err)
		return err
	}

	printlnFn("Password updated")
	return nil
}
