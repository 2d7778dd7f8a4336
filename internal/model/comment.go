package model

import (
	"time"
)

type Comment struct {
	ID              string    `db:"id" json:"id"`
	EventID         string    `db:"event_id" json:"eventId"`
	UserID          string    `db:"user_id" json:"userId"`
	Content         string    `db:"content" json:"content"`
	ParentCommentID *string   `db:"parent_comment_id" json:"parentCommentId"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
