package domain

import "time"

// ResetCode is one password-reset ledger entry. Several live entries may
// coexist for the same email; lookups honor the most recently issued one.
type ResetCode struct {
	Id        int64
	Email     Email
	Code      string
	Expires   time.Time
	CreatedAt time.Time
}

// Session is the most recently issued login result: the user payload plus
// the bearer token proving it.
type Session struct {
	User  UserInfo `json:"user"`
	Token string   `json:"token"`
}
