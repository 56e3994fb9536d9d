package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to messagely CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("msgly %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: users, user <name>, send <to>, inbox, sent, show <id>, read <id>, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "users":
			a.listUsers(ctx)
		case "user":
			if len(args) == 0 {
				fmt.Println("Usage: user <username>")
				continue
			}
			a.showUser(ctx, args[0])
		case "send":
			if len(args) == 0 {
				fmt.Println("Usage: send <username>")
				continue
			}
			a.send(ctx, args[0])
		case "inbox":
			a.inbox(ctx)
		case "sent":
			a.sent(ctx)
		case "show":
			if len(args) == 0 {
				fmt.Println("Usage: show <id>")
				continue
			}
			a.show(ctx, args[0])
		case "read":
			if len(args) == 0 {
				fmt.Println("Usage: read <id>")
				continue
			}
			a.markRead(ctx, args[0])
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}

}
