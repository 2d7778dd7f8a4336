package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/meeplemeet/meeplemeet/internal/model"
)

var (
	ErrTagNotFound  = errors.New("tag not found")
	ErrDuplicateTag = errors.New("tag already exists")
)

type TagRepository interface {
	Create(tag *model.Tag) error
	ByID(id string) (*model.Tag, error)
	List() ([]model.Tag, error)
	Delete(id string) error
	AssignToUser(userID, tagID string) error
	RemoveFromUser(userID, tagID string) error
	ByUser(userID string) ([]model.Tag, error)
}

type tagRepository struct {
	db *sqlx.DB
}

func NewTagRepository(db *sqlx.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	query := `INSERT INTO tags (id, name, created_at) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, tag.ID, tag.Name, tag.CreatedAt)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateTag
		}
		return err
	}

	return nil
}

func (r *tagRepository) ByID(id string) (*model.Tag, error) {
	tag := &model.Tag{}
	query := `SELECT * FROM tags WHERE id = $1`

	err := r.db.Get(tag, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrTagNotFound
	}

	return tag, err
}

func (r *tagRepository) List() ([]model.Tag, error) {
	tags := []model.Tag{}
	query := `SELECT * FROM tags ORDER BY name`

	err := r.db.Select(&tags, query)
	return tags, err
}

func (r *tagRepository) Delete(id string) error {
	query := `DELETE FROM tags WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTagNotFound
	}

	return nil
}

func (r *tagRepository) AssignToUser(userID, tagID string) error {
	query := `INSERT INTO user_tags (user_id, tag_id, created_at) VALUES ($1, $2, CURRENT_TIMESTAMP)`

	_, err := r.db.Exec(query, userID, tagID)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			// Already assigned, treat as success
			return nil
		}
		return err
	}

	return nil
}

func (r *tagRepository) RemoveFromUser(userID, tagID string) error {
	query := `DELETE FROM user_tags WHERE user_id = $1 AND tag_id = $2`

	_, err := r.db.Exec(query, userID, tagID)
	return err
}

func (r *tagRepository) ByUser(userID string) ([]model.Tag, error) {
	tags := []model.Tag{}
	query := `
		SELECT t.* FROM tags t
		JOIN user_tags ut ON t.id = ut.tag_id
		WHERE ut.user_id = $1
		ORDER BY t.name
	`

	err := r.db.Select(&tags, query, userID)
	return tags, err
}
