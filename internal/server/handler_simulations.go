package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/me/probsched/internal/simulation"
	"github.com/me/probsched/pkg/model"
)

// latestResponse is the most recent run. Exactly one of Report and Error is set.
type latestResponse struct {
	RunID      string             `json:"run_id"`
	FinishedAt time.Time          `json:"finished_at"`
	Report     *simulation.Report `json:"report,omitempty"`
	Error      *model.APIError    `json:"error,omitempty"`
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	var req model.SimulationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest,
			model.NewValidationError("invalid JSON body", model.FieldError{Message: err.Error()}))
		return
	}

	cfg, err := req.Config()
	if err != nil {
		status, apiErr := apiErrorFor(err)
		respondError(w, reqID, status, apiErr)
		return
	}

	report, err := s.runner.Run(r.Context(), cfg)
	if err != nil {
		status, apiErr := apiErrorFor(err)
		s.logger.Info("simulation rejected", "request_id", reqID, "status", status, "code", apiErr.Code)
		respondError(w, reqID, status, apiErr)
		return
	}
	respondCreated(w, reqID, report)
}

func (s *Server) handleLatestSimulation(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	rec, ok := s.runner.Latest()
	if !ok {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("simulation", "latest"))
		return
	}
	resp := latestResponse{RunID: rec.RunID, FinishedAt: rec.FinishedAt, Report: rec.Report}
	if rec.Err != nil {
		_, resp.Error = apiErrorFor(rec.Err)
	}
	respondOK(w, reqID, resp)
}

// apiErrorFor maps a pipeline error to an HTTP status and API error.
func apiErrorFor(err error) (int, *model.APIError) {
	if errors.Is(err, simulation.ErrRunInProgress) {
		return http.StatusConflict, &model.APIError{Code: model.ErrConflict, Message: err.Error()}
	}

	var re *model.RunError
	if !errors.As(err, &re) {
		return http.StatusInternalServerError, &model.APIError{Code: model.ErrInternal, Message: err.Error()}
	}

	apiErr := &model.APIError{Message: re.Error(), Kind: re.Kind}
	switch re.Kind {
	case model.KindConfiguration:
		apiErr.Code = model.ErrValidation
		return http.StatusBadRequest, apiErr
	case model.KindEngineNotFound:
		apiErr.Code = model.ErrEngineNotFound
		return http.StatusServiceUnavailable, apiErr
	case model.KindTimeout:
		apiErr.Code = model.ErrTimeout
		return http.StatusGatewayTimeout, apiErr
	}

	apiErr.Code = model.ErrEngine
	switch re.Kind {
	case model.KindProcessFailedOpaque, model.KindProcessFailedMalformed:
		apiErr.Details = []model.FieldError{
			{Field: "exit_code", Message: strconv.Itoa(re.ExitCode)},
			{Field: "stdout", Message: re.Stdout},
			{Field: "stderr", Message: re.Stderr},
		}
	case model.KindMalformedSuccessOutput:
		apiErr.Details = []model.FieldError{
			{Field: "stdout", Message: re.Stdout},
			{Field: "stderr", Message: re.Stderr},
		}
	}
	return http.StatusBadGateway, apiErr
}
