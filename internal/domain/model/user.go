package model

import "time"

// User holds credentials of a marketplace participant. The same account can buy and sell.
type User struct {
	ID           string
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
