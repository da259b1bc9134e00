// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// UserID equals the session id of the connection that joined.
type UserID string

type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}
