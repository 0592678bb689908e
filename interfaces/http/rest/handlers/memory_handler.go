package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	gardenapp "gardend/application/garden"
	"gardend/pkg/common"
	pkgerrors "gardend/pkg/errors"
	"gardend/pkg/utils"
)

// MemoryHandler handles the comment collection scoped under each memory.
type MemoryHandler struct {
	garden *gardenapp.Service
	logger *zap.Logger
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(garden *gardenapp.Service, logger *zap.Logger) *MemoryHandler {
	return &MemoryHandler{garden: garden, logger: logger}
}

// AddCommentRequest represents the request body for adding a comment
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}

// ListComments handles GET /memories/{memoryID}/comments
func (h *MemoryHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	memoryID := chi.URLParam(r, "memoryID")

	comments, err := h.garden.ListComments(r.Context(), memoryID)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /memories/{memoryID}/comments
func (h *MemoryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	memoryID := chi.URLParam(r, "memoryID")

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError("invalid request body"))
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, pkgerrors.NewValidationError(err.Error()))
		return
	}

	comment, err := h.garden.AddComment(r.Context(), memoryID, req.Text)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /memories/{memoryID}/comments/{commentID}
func (h *MemoryHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	memoryID := chi.URLParam(r, "memoryID")
	commentID := chi.URLParam(r, "commentID")

	if err := h.garden.DeleteComment(r.Context(), memoryID, commentID); err != nil {
		common.RespondError(w, err)
		return
	}

	h.logger.Info("Comment deleted",
		zap.String("memoryID", memoryID),
		zap.String("commentID", commentID))

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
