package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/me/probsched/pkg/model"
)

type healthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Runtime   string `json:"runtime"`
	Timeout   string `json:"timeout"`
	Running   bool   `json:"running"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:    "healthy",
		Version:   model.Version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Runtime:   s.runtime,
		Timeout:   s.runner.Timeout().String(),
		Running:   s.runner.Running(),
	})
}
