package cli

import (
	"context"
	"fmt"
	"log"
)

func (a *App) listUsers(ctx context.Context) {
	users, err := a.api.Users(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	if len(users) == 0 {
		fmt.Println("No users yet")
		return
	}
	for _, u := range users {
		fmt.Printf("%s  %s %s  %s\n", u.Username, u.FirstName, u.LastName, u.Phone)
	}
}

func (a *App) showUser(ctx context.Context, username string) {
	user, err := a.api.User(ctx, username)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return
	}

	fmt.Printf("Username:   %s\n", user.Username)
	fmt.Printf("Name:       %s %s\n", user.FirstName, user.LastName)
	fmt.Printf("Phone:      %s\n", user.Phone)
	fmt.Printf("Joined:     %s\n", user.JoinAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("Last login: %s\n", user.LastLoginAt.Local().Format("2006-01-02 15:04"))
}
