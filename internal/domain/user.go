package domain

import "time"

type UserId = int64
type Email = string

// User is the durable account record. Email is unique at the storage level.
type User struct {
	Id             UserId
	FirstName      string
	LastName       string
	Email          Email
	Phone          string
	LocalisationId *string
	CaptorsId      *string
	PassHash       string
	CreatedAt      time.Time
}

// UserInfo is the user payload returned to clients on login. Field names
// follow the wire contract of the original frontend (tel, localisation_id...).
type UserInfo struct {
	Id             UserId  `json:"id"`
	FirstName      string  `json:"firstname"`
	LastName       string  `json:"lastname"`
	Email          Email   `json:"email"`
	Phone          string  `json:"tel"`
	LocalisationId *string `json:"localisation_id"`
	CaptorsId      *string `json:"captors_id"`
}

// Info maps a stored user to its client-facing payload.
func (u User) Info() UserInfo {
	return UserInfo{
		Id:             u.Id,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Phone:          u.Phone,
		LocalisationId: u.LocalisationId,
		CaptorsId:      u.CaptorsId,
	}
}

// Registration carries the fields required to create an account.
// All fields are mandatory.
type Registration struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     Email  `validate:"required"`
	Phone     string `validate:"required"`
	Password  string `validate:"required"`
}
