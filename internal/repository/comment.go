package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/meeplemeet/meeplemeet/internal/model"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository interface {
	Create(comment *model.Comment) error
	ByID(id string) (*model.Comment, error)
	ByEvent(eventID string) ([]model.Comment, error)
	UpdateContent(id, content string) error
	Delete(id string) error
}

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	query := `INSERT INTO comments (id, event_id, user_id, content, parent_comment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query, comment.ID, comment.EventID, comment.UserID,
		comment.Content, comment.ParentCommentID, comment.CreatedAt, comment.UpdatedAt)
	return err
}

func (r *commentRepository) ByID(id string) (*model.Comment, error) {
	comment := &model.Comment{}
	query := `SELECT * FROM comments WHERE id = $1`

	err := r.db.Get(comment, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCommentNotFound
	}

	return comment, err
}

func (r *commentRepository) ByEvent(eventID string) ([]model.Comment, error) {
	comments := []model.Comment{}
	query := `SELECT * FROM comments WHERE event_id = $1 ORDER BY created_at ASC`

	err := r.db.Select(&comments, query, eventID)
	return comments, err
}

func (r *commentRepository) UpdateContent(id, content string) error {
	query := `UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.Exec(query, content, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}

func (r *commentRepository) Delete(id string) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCommentNotFound
	}

	return nil
}
