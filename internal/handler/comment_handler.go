package handlers

import (
	"encoding/json"
	"net/http"
)

type ContentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

func (h *Handlers) decodeContent(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req ContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return "", false
	}
	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return "", false
	}
	return req.Content, true
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.CommentService.List(r.Context(), postID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	comment, err := h.CommentService.Create(r.Context(), postID, identity.UserID, content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, CreatedResponse{ID: comment.ID}, http.StatusCreated)
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	if err := h.CommentService.Update(r.Context(), id, identity.UserID, content); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.CommentService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetReplies(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	replies, err := h.ReplyService.List(r.Context(), commentID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, replies, http.StatusOK)
}

func (h *Handlers) CreateReply(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	reply, err := h.ReplyService.Create(r.Context(), commentID, identity.UserID, content)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, CreatedResponse{ID: reply.ID}, http.StatusCreated)
}

func (h *Handlers) UpdateReply(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	content, ok := h.decodeContent(w, r)
	if !ok {
		return
	}

	if err := h.ReplyService.Update(r.Context(), id, identity.UserID, content); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteReply(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.ReplyService.Delete(r.Context(), id, identity.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
