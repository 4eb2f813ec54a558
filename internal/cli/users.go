package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/metascrub-app/core/internal/models"
)

// Users lists every account.
func (a *App) Users(ctx context.Context) error {
	users, err := a.ids.AllUsers(ctx)
	if err != nil {
		printlnFn("Listing failed:", err)
		return err
	}
	if len(users) == 0 {
		printlnFn("No accounts")
		return nil
	}

	for _, u := range users {
		line := fmt.Sprintf("%-20s %-6s", u.Username, u.Role)
		if u.Email != "" {
			line += " " + u.Email
		}
		printlnFn(line)
	}
	return nil
}

// Update edits profile fields interactively. With no argument it targets
// the signed-in account; updating someone else requires the admin role.
func (a *App) Update(ctx context.Context, args []string) error {
	target := a.ids.CurrentUsername()
	if len(args) > 0 {
		target = args[0]
	}
	if target != a.ids.CurrentUsername() && !a.ids.IsAdmin() {
		printlnFn("Admin role required to update other accounts")
		return nil
	}

	fullName, err := getSimpleText(a.reader, "Full name (blank keeps current)", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email (blank keeps current)", os.Stdout)
	if err != nil {
		return err
	}

	update := models.UserUpdate{}
	if fullName != "" {
		update.FullName = &fullName
	}
	if email != "" {
		update.Email = &email
	}
	if update.Empty() {
		printlnFn("Nothing to change")
		return nil
	}

	if err := a.ids.UpdateUser(ctx, target, update); err != nil {
		printlnFn("Update failed:", err)
		return err
	}

	printlnFn("Updated", target)
	return nil
}

// SetRole changes an account's role: setrole <username> <admin|user>.
func (a *App) SetRole(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: setrole <username> <admin|user>")
		return nil
	}

	if err := a.ids.SetRole(ctx, args[0], models.Role(args[1])); err != nil {
		printlnFn("Role change failed:", err)
		return err
	}

	printlnFn("Role of", args[0], "is now", args[1])
	return nil
}

// Delete removes an account after confirmation: delete <username>.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: delete <username>")
		return nil
	}
	username := args[0]

	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? (yes/no)", username), os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		printlnFn("Aborted")
		return nil
	}

	if err := a.ids.DeleteUser(ctx, username); err != nil {
		printlnFn("Delete failed:", err)
		return err
	}

	printlnFn("Deleted", username)
	return nil
}
