package server

import (
	"net/http"

	"github.com/me/probsched/pkg/model"
)

// algorithmInfo describes one algorithm and the parameters it requires.
type algorithmInfo struct {
	Name       string   `json:"name"`
	EngineName string   `json:"engine_name"`
	Parameters []string `json:"parameters"`
}

func algorithmInfos() []algorithmInfo {
	out := make([]algorithmInfo, 0, len(model.Algorithms))
	for _, a := range model.Algorithms {
		params := []string{}
		if a.NeedsQuantum() {
			params = append(params, "quantum")
		}
		if a.NeedsMaxTime() {
			params = append(params, "max_time")
		}
		out = append(out, algorithmInfo{Name: a.String(), EngineName: a.EngineName(), Parameters: params})
	}
	return out
}

func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	respondOK(w, RequestIDFromContext(r.Context()), algorithmInfos())
}
