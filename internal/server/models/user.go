// Package models defines the records persisted by the server.
package models

import "time"

type User struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
