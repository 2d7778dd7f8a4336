package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/meeplemeet/meeplemeet/internal/model"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrAlreadyParticipant = errors.New("already participating in event")
)

type EventRepository interface {
	Create(event *model.Event) error
	ByID(id string) (*model.Event, error)
	Update(event *model.Event) error
	Delete(id string) error
	List(includePrivate bool) ([]model.Event, error)
	ByOwner(ownerID string) ([]model.Event, error)
	ByParticipant(userID string) ([]model.Event, error)
	AddParticipant(eventID, userID string) error
	RemoveParticipant(eventID, userID string) error
	Participants(eventID string) ([]model.User, error)
	ParticipantCount(eventID string) (int, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *model.Event) error {
	query := `INSERT INTO events (id, name, description, location, owner_id, max_participants, event_date, is_public, games, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query, event.ID, event.Name, event.Description, event.Location,
		event.OwnerID, event.MaxParticipants, event.EventDate, event.IsPublic, event.Games,
		event.CreatedAt, event.UpdatedAt)
	return err
}

func (r *eventRepository) ByID(id string) (*model.Event, error) {
	event := &model.Event{}
	query := `SELECT * FROM events WHERE id = $1`

	err := r.db.Get(event, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}

	return event, err
}

func (r *eventRepository) Update(event *model.Event) error {
	event.UpdatedAt = time.Now()
	query := `UPDATE events
		SET name = $1, description = $2, location = $3, max_participants = $4,
		    event_date = $5, is_public = $6, games = $7, updated_at = $8
		WHERE id = $9`

	result, err := r.db.Exec(query, event.Name, event.Description, event.Location,
		event.MaxParticipants, event.EventDate, event.IsPublic, event.Games, event.UpdatedAt, event.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) Delete(id string) error {
	query := `DELETE FROM events WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (r *eventRepository) List(includePrivate bool) ([]model.Event, error) {
	events := []model.Event{}
	query := `SELECT * FROM events`
	if !includePrivate {
		query += ` WHERE is_public = TRUE`
	}
	query += ` ORDER BY event_date ASC`

	err := r.db.Select(&events, query)
	return events, err
}

func (r *eventRepository) ByOwner(ownerID string) ([]model.Event, error) {
	events := []model.Event{}
	query := `SELECT * FROM events WHERE owner_id = $1 ORDER BY event_date ASC`

	err := r.db.Select(&events, query, ownerID)
	return events, err
}

func (r *eventRepository) ByParticipant(userID string) ([]model.Event, error) {
	events := []model.Event{}
	query := `
		SELECT e.* FROM events e
		JOIN event_participants ep ON e.id = ep.event_id
		WHERE ep.user_id = $1
		ORDER BY e.event_date ASC
	`

	err := r.db.Select(&events, query, userID)
	return events, err
}

func (r *eventRepository) AddParticipant(eventID, userID string) error {
	query := `INSERT INTO event_participants (event_id, user_id, created_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)`

	_, err := r.db.Exec(query, eventID, userID)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrAlreadyParticipant
		}
		return err
	}

	return nil
}

func (r *eventRepository) RemoveParticipant(eventID, userID string) error {
	query := `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`

	_, err := r.db.Exec(query, eventID, userID)
	return err
}

func (r *eventRepository) Participants(eventID string) ([]model.User, error) {
	users := []model.User{}
	query := `
		SELECT u.* FROM users u
		JOIN event_participants ep ON u.id = ep.user_id
		WHERE ep.event_id = $1
		ORDER BY ep.created_at ASC
	`

	err := r.db.Select(&users, query, eventID)
	return users, err
}

func (r *eventRepository) ParticipantCount(eventID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM event_participants WHERE event_id = $1`

	err := r.db.Get(&count, query, eventID)
	return count, err
}
