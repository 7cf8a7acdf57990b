package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context, all bool) error
	Upload(ctx context.Context, path string) error
	Preview(ctx context.Context, name string) error
	Download(ctx context.Context, name, dest string) error
}

const (
	helpAnonymous = "Available commands: signup, login, exit"
	helpLoggedIn  = "Available commands: (l)ist [all], upload <path>, preview <name>, download <name> [dest], logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// It returns on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help | signup | register | login | exit | quit
//
//	Logged in:
//	  - list [all]               (l for short)
//	  - upload <path>
//	  - preview <name>
//	  - download <name> [dest]
//	  - logout | exit | quit
//
// File commands require a login; the handlers report their own errors, so
// the loop ignores the returned values.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("fr> %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "l", "list", "upload", "preview", "download", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in.")
				continue
			}
			dispatchFileCommand(ctx, a, cmd, args)

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func dispatchFileCommand(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "l", "list":
		_ = a.List(ctx, len(args) > 0 && args[0] == "all")

	case "upload":
		if len(args) == 0 {
			printlnFn("Usage: upload <path>")
			return
		}
		_ = a.Upload(ctx, strings.Join(args, " "))

	case "preview":
		if len(args) == 0 {
			printlnFn("Usage: preview <name>")
			return
		}
		_ = a.Preview(ctx, strings.Join(args, " "))

	case "download":
		if len(args) == 0 || len(args) > 2 {
			printlnFn("Usage: download <name> [dest]")
			return
		}
		dest := ""
		if len(args) == 2 {
			dest = args[1]
		}
		_ = a.Download(ctx, args[0], dest)

	case "logout":
		_ = a.Logout(ctx)
	}
}
