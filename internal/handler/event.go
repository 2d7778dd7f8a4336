package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/meeplemeet/meeplemeet/internal/ctxkeys"
	"github.com/meeplemeet/meeplemeet/internal/model"
	"github.com/meeplemeet/meeplemeet/internal/repository"
)

type eventHandler struct {
	events repository.EventRepository
	users  repository.UserRepository
}

func NewEventHandler(events repository.EventRepository, users repository.UserRepository) *eventHandler {
	return &eventHandler{events: events, users: users}
}

type eventResponse struct {
	*model.Event
	Participants     []model.User `json:"participants"`
	ParticipantCount int          `json:"participantCount"`
}

func (h *eventHandler) withParticipants(event *model.Event) (*eventResponse, error) {
	participants, err := h.events.Participants(event.ID)
	if err != nil {
		return nil, err
	}
	return &eventResponse{
		Event:            event,
		Participants:     participants,
		ParticipantCount: len(participants),
	}, nil
}

// List returns upcoming events. Admins see private events too.
func (h *eventHandler) List(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())

	events, err := h.events.List(guard.IsAdmin())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// ListPublic is the unauthenticated event listing.
func (h *eventHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *eventHandler) Get(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	event, err := h.events.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	if !event.IsPublic && !guard.IsOwnerOrAdmin(event.OwnerID) {
		writeError(w, http.StatusForbidden, "cannot view private event")
		return
	}

	resp, err := h.withParticipants(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type createEventRequest struct {
	Name            string     `json:"name"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location"`
	MaxParticipants *int       `json:"maxParticipants"`
	EventDate       *time.Time `json:"eventDate"`
	IsPublic        *bool      `json:"isPublic"`
	Games           []string   `json:"games"`
}

func (h *eventHandler) Create(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())

	var req createEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" || req.EventDate == nil {
		writeError(w, http.StatusBadRequest, "name and eventDate are required")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	if req.Games == nil {
		req.Games = []string{}
	}

	now := time.Now()
	event := &model.Event{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		Location:        req.Location,
		OwnerID:         guard.UserID(),
		MaxParticipants: req.MaxParticipants,
		EventDate:       *req.EventDate,
		IsPublic:        isPublic,
		Games:           req.Games,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := h.events.Create(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	err = h.users.IncrementHostedEvents(guard.UserID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

type updateEventRequest struct {
	Name            *string    `json:"name"`
	Description     *string    `json:"description"`
	Location        *string    `json:"location"`
	MaxParticipants *int       `json:"maxParticipants"`
	EventDate       *time.Time `json:"eventDate"`
	IsPublic        *bool      `json:"isPublic"`
	Games           []string   `json:"games"`
}

func (h *eventHandler) Update(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	event, err := h.events.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	if !guard.IsOwnerOrAdmin(event.OwnerID) {
		writeError(w, http.StatusForbidden, "not authorized to update this event")
		return
	}

	var req updateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Name != nil {
		event.Name = *req.Name
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.IsPublic != nil {
		event.IsPublic = *req.IsPublic
	}
	if req.Games != nil {
		event.Games = req.Games
	}

	err = h.events.Update(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *eventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	event, err := h.events.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	if !guard.IsOwnerOrAdmin(event.OwnerID) {
		writeError(w, http.StatusForbidden, "not authorized to delete this event")
		return
	}

	err = h.events.Delete(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *eventHandler) Join(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	event, err := h.events.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	if !event.IsPublic && !guard.IsOwnerOrAdmin(event.OwnerID) {
		writeError(w, http.StatusForbidden, "cannot join private event")
		return
	}

	if event.MaxParticipants != nil {
		count, err := h.events.ParticipantCount(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to join event")
			return
		}
		if count >= *event.MaxParticipants {
			writeError(w, http.StatusConflict, "event is full")
			return
		}
	}

	err = h.events.AddParticipant(id, guard.UserID())
	if err != nil && !errors.Is(err, repository.ErrAlreadyParticipant) {
		writeError(w, http.StatusInternalServerError, "failed to join event")
		return
	}

	resp, err := h.withParticipants(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to join event")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *eventHandler) Leave(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	event, err := h.events.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	err = h.events.RemoveParticipant(id, guard.UserID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to leave event")
		return
	}

	resp, err := h.withParticipants(event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to leave event")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
