package http

import (
	stdhttp "net/http"
)

func (h *Handler) Routes() stdhttp.Handler {
	mux := stdhttp.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	})

	mux.HandleFunc("POST /threads/{forum}/sync", h.SyncThread)
	mux.HandleFunc("GET /threads/{forum}/markdown", h.GetThreadMarkdown)
	mux.HandleFunc("GET /notes/{id}/file", h.GetNoteFile)

	return mux
}
