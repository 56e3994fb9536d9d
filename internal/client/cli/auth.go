package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/philipbrowne/messagely/internal/client/api"
	"github.com/philipbrowne/messagely/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and attempts to create a new account.
// On success the user is logged in with the returned token. The password byte
// slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	firstName, err := getSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone", os.Stdout)
	if err != nil {
		return err
	}

	req := api.RegisterRequest{
		Username:  userName,
		Password:  string(password),
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
	}
	if err := a.api.Register(ctx, req); err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	a.userName = userName
	fmt.Println("Success!")
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, password); err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userName = userName
	log.Printf("Login successful")
	return nil
}

// Logout drops the in-memory token and user name.
func (a *App) Logout(ctx context.Context) error {
	a.api.SetToken("")
	a.userName = ""
	return nil
}
