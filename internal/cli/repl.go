package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it
// with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real
// App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Reset(ctx context.Context) error
	Update(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	SetRole(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Backup(ctx context.Context) error
	Backups(ctx context.Context) error
	Audit(ctx context.Context) error
}

// adminCommands are refused unless the signed-in account holds the admin
// role. Gating lives here in the shell; the identity service records but
// does not police administrative calls.
var adminCommands = map[string]struct{}{
	"users":   {},
	"setrole": {},
	"delete":  {},
	"export":  {},
	"import":  {},
	"backup":  {},
	"backups": {},
	"audit":   {},
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Signed-out sessions only see
// register, login, and reset. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Errors returned by command handlers are ignored here; handlers report
// their own outcomes.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("metascrub %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: register, login, reset, exit")
			case "register":
				_ = a.Register(ctx)
			case "login":
				_ = a.Login(ctx)
			case "reset":
				_ = a.Reset(ctx)
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		if _, ok := adminCommands[cmd]; ok && !a.isAdmin() {
			printlnFn("Admin role required for:", cmd)
			continue
		}

		switch cmd {
		case "help":
			if a.isAdmin() {
				printlnFn("Available commands: whoami, users, update, setrole, delete, reset, export, import, backup, backups, audit, logout, exit")
			} else {
				printlnFn("Available commands: whoami, update, reset, logout, exit")
			}

		case "whoami":
			_ = a.Whoami(ctx)

		case "users":
			_ = a.Users(ctx)

		case "update":
			_ = a.Update(ctx, args)

		case "setrole":
			_ = a.SetRole(ctx, args)

		case "delete":
			_ = a.Delete(ctx, args)

		case "reset":
			_ = a.Reset(ctx)

		case "export":
			_ = a.Export(ctx, args)

		case "import":
			_ = a.Import(ctx, args)

		case "backup":
			_ = a.Backup(ctx)

		case "backups":
			_ = a.Backups(ctx)

		case "audit":
			_ = a.Audit(ctx)

		case "logout":
			_ = a.Logout(ctx)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
