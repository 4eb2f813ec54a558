package cli

import (
	"context"
	"os"

	"github.com/metascrub-app/core/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and password and creates the account.
// The first account in an empty store becomes the administrator so a fresh
// installation has one; everyone after that starts as a regular user.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Choose a username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Choose a password", os.Stdout)
	if err != nil {
		return err
	}

	role := models.RoleUser
	if users, err := a.ids.AllUsers(ctx); err == nil && len(users) == 0 {
		role = models.RoleAdmin
	}

	if err := a.ids.Register(ctx, username, password, role); err != nil {
		printlnFn("Registration failed:", err)
		return err
	}

	printlnFn("Account created:", username, "("+string(role)+")")
	return nil
}

// Login prompts for credentials and signs the account in.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword("Enter password", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.ids.Verify(ctx, username, password); err != nil {
		printlnFn("Login failed:", err)
		return err
	}

	printlnFn("Logged in as", a.ids.CurrentUsername())
	return nil
}

// Logout ends the session; harmless when already signed out.
func (a *App) Logout(ctx context.Context) error {
	a.ids.Logout(ctx)
	printlnFn("Logged out")
	return nil
}

// Whoami prints the signed-in account.
func (a *App) Whoami(ctx context.Context) error {
	u := a.ids.CurrentUser()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}

	printlnFn("Username:", u.Username)
	printlnFn("Role:    ", string(u.Role))
	if u.FullName != "" {
		printlnFn("Name:    ", u.FullName)
	}
	if u.Email != "" {
		printlnFn("Email:   ", u.Email)
	}
	return nil
}
