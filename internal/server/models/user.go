package models

import "time"

// User is a registered account. PasswordHash is the bcrypt digest of the
// password; the plaintext is never stored.
type User struct {
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	JoinAt       time.Time
	LastLoginAt  time.Time
}

// Profile is the public subset of a user, safe to return to other users.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}
