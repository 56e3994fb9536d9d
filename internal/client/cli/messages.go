package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/philipbrowne/messagely/internal/client/api"
)

func (a *App) send(ctx context.Context, to string) {
	body, err := GetMultiline(a.reader, "Enter message", os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	msg, err := a.api.Send(ctx, to, body)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Printf("Sent message %d to %s\n", msg.ID, to)
}

func (a *App) inbox(ctx context.Context) {
	if a.userName == "" {
		fmt.Println("Log in first")
		return
	}
	msgs, err := a.api.MessagesTo(ctx, a.userName)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	printMessageList(msgs, true)
}

func (a *App) sent(ctx context.Context) {
	if a.userName == "" {
		fmt.Println("Log in first")
		return
	}
	msgs, err := a.api.MessagesFrom(ctx, a.userName)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	printMessageList(msgs, false)
}

func printMessageList(msgs []api.Message, incoming bool) {
	if len(msgs) == 0 {
		fmt.Println("No messages")
		return
	}
	for _, m := range msgs {
		other := ""
		if incoming {
			if m.FromUser != nil {
				other = "from " + m.FromUser.Username
			}
		} else {
			if m.ToUser != nil {
				other = "to " + m.ToUser.Username
			}
		}
		status := "unread"
		if m.ReadAt != nil {
			status = "read"
		}
		fmt.Printf("[%d] %s (%s): %s\n", m.ID, other, status, m.Body)
	}
}

func (a *App) show(ctx context.Context, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Println("Usage: show <id>")
		return
	}

	msg, err := a.api.Message(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Printf("Message %d\n", msg.ID)
	if msg.FromUser != nil {
		fmt.Printf("From: %s (%s %s)\n", msg.FromUser.Username, msg.FromUser.FirstName, msg.FromUser.LastName)
	}
	if msg.ToUser != nil {
		fmt.Printf("To:   %s (%s %s)\n", msg.ToUser.Username, msg.ToUser.FirstName, msg.ToUser.LastName)
	}
	if msg.SentAt != nil {
		fmt.Printf("Sent: %s\n", msg.SentAt.Local().Format("2006-01-02 15:04"))
	}
	if msg.ReadAt != nil {
		fmt.Printf("Read: %s\n", msg.ReadAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println(msg.Body)
}

func (a *App) markRead(ctx context.Context, arg string) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		fmt.Println("Usage: read <id>")
		return
	}

	msg, err := a.api.MarkRead(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}
	fmt.Printf("Message %d marked as read\n", msg.ID)
}
