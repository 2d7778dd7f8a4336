package handler

import (
	"errors"
	"net/http"

	"github.com/meeplemeet/meeplemeet/internal/ctxkeys"
	"github.com/meeplemeet/meeplemeet/internal/model"
	"github.com/meeplemeet/meeplemeet/internal/repository"
)

type userHandler struct {
	users repository.UserRepository
	tags  repository.TagRepository
}

func NewUserHandler(users repository.UserRepository, tags repository.TagRepository) *userHandler {
	return &userHandler{users: users, tags: tags}
}

type userResponse struct {
	*model.User
	Tags []model.Tag `json:"tags"`
}

func (h *userHandler) userWithTags(user *model.User) (*userResponse, error) {
	tags, err := h.tags.ByUser(user.ID)
	if err != nil {
		return nil, err
	}
	return &userResponse{User: user, Tags: tags}, nil
}

func (h *userHandler) Me(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())

	user, err := h.users.ByID(guard.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	resp, err := h.userWithTags(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *userHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *userHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	user, err := h.users.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	resp, err := h.userWithTags(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AssignTag attaches a tag to a user; only that user or an admin may do so.
func (h *userHandler) AssignTag(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	userID := r.PathValue("id")
	tagID := r.PathValue("tagID")

	if !guard.IsOwnerOrAdmin(userID) {
		writeError(w, http.StatusForbidden, "not authorized to modify this user's tags")
		return
	}

	_, err := h.tags.ByID(tagID)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			writeError(w, http.StatusNotFound, "tag not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to assign tag")
		return
	}

	err = h.tags.AssignToUser(userID, tagID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assign tag")
		return
	}

	tags, err := h.tags.ByUser(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to assign tag")
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *userHandler) RemoveTag(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	userID := r.PathValue("id")
	tagID := r.PathValue("tagID")

	if !guard.IsOwnerOrAdmin(userID) {
		writeError(w, http.StatusForbidden, "not authorized to modify this user's tags")
		return
	}

	err := h.tags.RemoveFromUser(userID, tagID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove tag")
		return
	}

	tags, err := h.tags.ByUser(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to remove tag")
		return
	}

	writeJSON(w, http.StatusOK, tags)
}
