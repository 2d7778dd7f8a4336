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

type commentHandler struct {
	comments repository.CommentRepository
	events   repository.EventRepository
}

func NewCommentHandler(comments repository.CommentRepository, events repository.EventRepository) *commentHandler {
	return &commentHandler{comments: comments, events: events}
}

func (h *commentHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("id")

	comments, err := h.comments.ByEvent(eventID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list comments")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

type createCommentRequest struct {
	EventID         string  `json:"eventId"`
	Content         string  `json:"content"`
	ParentCommentID *string `json:"parentCommentId"`
}

func (h *commentHandler) Create(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())

	var req createCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.EventID == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "eventId and content are required")
		return
	}

	_, err := h.events.ByID(req.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	now := time.Now()
	comment := &model.Comment{
		ID:              uuid.New().String(),
		EventID:         req.EventID,
		UserID:          guard.UserID(),
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = h.comments.Create(comment)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func (h *commentHandler) Update(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	comment, err := h.comments.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get comment")
		return
	}

	if !guard.IsOwnerOrAdmin(comment.UserID) {
		writeError(w, http.StatusForbidden, "not authorized to update this comment")
		return
	}

	var req updateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	err = h.comments.UpdateContent(id, req.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update comment")
		return
	}

	comment.Content = req.Content
	writeJSON(w, http.StatusOK, comment)
}

func (h *commentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	comment, err := h.comments.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			writeError(w, http.StatusNotFound, "comment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get comment")
		return
	}

	if !guard.IsOwnerOrAdmin(comment.UserID) {
		writeError(w, http.StatusForbidden, "not authorized to delete this comment")
		return
	}

	err = h.comments.Delete(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
