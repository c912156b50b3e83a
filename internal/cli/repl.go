package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with
// a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	RegisterParty(ctx context.Context) error
	Join(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Folders(ctx context.Context) error
	SelectFolder(ctx context.Context, name string) error
	AddFolder(ctx context.Context, name string) error
	RenameFolder(ctx context.Context) error
	DeleteFolder(ctx context.Context, name string) error
	List(ctx context.Context) error
	Post(ctx context.Context) error
	Edit(ctx context.Context, cardRef string) error
	Delete(ctx context.Context, cardRef string) error
	Pin(ctx context.Context, cardRef string) error
	Visit(ctx context.Context, cardRef, slot string) error
	Follow(ctx context.Context, cardRef string) error
	Unfollow(ctx context.Context, cardRef string) error
	Notifications(ctx context.Context) error
	ReadNotification(ctx context.Context, ref string) error
	Board(ctx context.Context) error
	Timezone(ctx context.Context, tz string) error
	Instruct(ctx context.Context) error
	DeleteParty(ctx context.Context, partyID string) error
	DeleteUser(ctx context.Context, userID string) error
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL reads one line at a time, parses the first token as the command
// and dispatches to methods on a. Unknown commands are reported back to the
// user. The loop exits on scanner EOF or when the user types "exit" or
// "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pods %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Commands: folders, select <name>, list, post, edit <n>, delete <n>, pin <n>,")
				printlnFn("  visit <n> [slot], follow <n>, unfollow <n>, notifications, read <n>,")
				printlnFn("  board, timezone <tz>, instruct, pause, resume, status, logout, exit")
				printlnFn("Privileged: folder-add <name>, folder-rename, folder-delete <name>")
				printlnFn("Architect only: delete-party <id>, delete-user <id>")
			} else {
				printlnFn("Commands: register-party, join, login, exit")
			}

		case "register-party":
			_ = a.RegisterParty(ctx)

		case "join":
			_ = a.Join(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "folders":
			_ = a.Folders(ctx)

		case "select":
			_ = a.SelectFolder(ctx, strings.Join(args, " "))

		case "folder-add":
			_ = a.AddFolder(ctx, strings.Join(args, " "))

		case "folder-rename":
			_ = a.RenameFolder(ctx)

		case "folder-delete":
			_ = a.DeleteFolder(ctx, strings.Join(args, " "))

		case "l", "list":
			_ = a.List(ctx)

		case "post":
			_ = a.Post(ctx)

		case "edit":
			_ = a.Edit(ctx, arg(0))

		case "delete":
			_ = a.Delete(ctx, arg(0))

		case "pin":
			_ = a.Pin(ctx, arg(0))

		case "visit":
			_ = a.Visit(ctx, arg(0), arg(1))

		case "follow":
			_ = a.Follow(ctx, arg(0))

		case "unfollow":
			_ = a.Unfollow(ctx, arg(0))

		case "n", "notifications":
			_ = a.Notifications(ctx)

		case "read":
			_ = a.ReadNotification(ctx, arg(0))

		case "board":
			_ = a.Board(ctx)

		case "timezone":
			_ = a.Timezone(ctx, arg(0))

		case "instruct":
			_ = a.Instruct(ctx)

		case "delete-party":
			_ = a.DeleteParty(ctx, arg(0))

		case "delete-user":
			_ = a.DeleteUser(ctx, arg(0))

		case "pause":
			_ = a.Pause(ctx)

		case "resume":
			_ = a.Resume(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
