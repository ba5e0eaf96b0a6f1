package server

import (
	"net/http"

	"github.com/me/probsched/internal/proctable"
	"github.com/me/probsched/pkg/model"
)

func (s *Server) handleParseProcesses(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	table, err := proctable.Parse(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid process table", model.FieldError{Field: "body", Message: err.Error()}))
		return
	}
	respondOK(w, reqID, table)
}
