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

type tagHandler struct {
	tags repository.TagRepository
}

func NewTagHandler(tags repository.TagRepository) *tagHandler {
	return &tagHandler{tags: tags}
}

func (h *tagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

type createTagRequest struct {
	Name string `json:"name"`
}

func (h *tagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	tag := &model.Tag{
		ID:        uuid.New().String(),
		Name:      req.Name,
		CreatedAt: time.Now(),
	}

	err := h.tags.Create(tag)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTag) {
			writeError(w, http.StatusConflict, "tag already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create tag")
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

// Delete removes a tag entirely; admin only.
func (h *tagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	guard := ctxkeys.Guard(r.Context())
	id := r.PathValue("id")

	if !guard.IsAdmin() {
		writeError(w, http.StatusForbidden, "not authorized to delete tags")
		return
	}

	err := h.tags.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrTagNotFound) {
			writeError(w, http.StatusNotFound, "tag not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete tag")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
