package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	endpoints := []endpointInfo{
		{"/api/v1/health", []string{"GET"}, "Server health, version and engine runtime"},
		{"/api/v1/algorithms", []string{"GET"}, "Supported scheduling algorithms and their parameters"},
		{"/api/v1/simulations", []string{"POST"}, "Run one simulation and return its report"},
		{"/api/v1/simulations/latest", []string{"GET"}, "Most recent simulation report or failure"},
		{"/api/v1/processes/parse", []string{"POST"}, "Parse a CSV process table"},
	}
	if s.config.Metrics && s.gatherer != nil {
		endpoints = append(endpoints, endpointInfo{"/metrics", []string{"GET"}, "Prometheus metrics"})
	}
	respondOK(w, reqID, discoveryResponse{
		Name:        "probsched API",
		Version:     "v1",
		Description: "CPU scheduling simulations run by an external engine",
		Endpoints:   endpoints,
	})
}
