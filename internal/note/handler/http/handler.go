package http

import (
	"encoding/json"
	"errors"
	stdhttp "net/http"

	"github.com/owlview/reviewtree/internal/note/service"
)

type Handler struct {
	svc service.NoteService
}

func New(svc service.NoteService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) SyncThread(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	forum := r.PathValue("forum")

	synced, err := h.svc.SyncThread(r.Context(), forum)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, stdhttp.StatusOK, map[string]any{"synced": synced})
}

func (h *Handler) GetThreadMarkdown(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	forum := r.PathValue("forum")
	title := r.URL.Query().Get("title")

	doc, err := h.svc.ThreadMarkdown(r.Context(), forum, title)
	if err != nil {
		writeError(w, err)
		return
	}

	writeMarkdown(w, doc)
}

func (h *Handler) GetNoteFile(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := r.PathValue("id")

	unit, err := h.svc.NoteFile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+unit.Filename+`"`)
	writeMarkdown(w, unit.Content)
}

func writeError(w stdhttp.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeJSON(w, stdhttp.StatusBadRequest, map[string]any{"error": "invalid input"})
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, stdhttp.StatusNotFound, map[string]any{"error": "not found"})
	case errors.Is(err, service.ErrNoClient):
		writeJSON(w, stdhttp.StatusServiceUnavailable, map[string]any{"error": "sync unavailable"})
	default:
		writeJSON(w, stdhttp.StatusInternalServerError, map[string]any{"error": "internal error"})
	}
}

func writeJSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMarkdown(w stdhttp.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte(doc))
}
