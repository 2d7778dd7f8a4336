package model

import (
	"time"
)

type User struct {
	ID                string    `db:"id" json:"id"`
	FirstName         string    `db:"first_name" json:"firstName"`
	LastName          string    `db:"last_name" json:"lastName"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	IsAdmin           bool      `db:"is_admin" json:"isAdmin"`
	HostedEventsCount int       `db:"hosted_events_count" json:"hostedEventsCount"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}
