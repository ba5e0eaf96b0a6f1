package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

// SimulationRequest is the JSON body accepted by the simulations endpoint.
// Field names follow the engine flags.
type SimulationRequest struct {
	Algorithm string `json:"algorithm"`
	File      string `json:"file,omitempty"`
	Generate  int    `json:"generate,omitempty"`
	Quantum   int    `json:"quantum,omitempty"`
	MaxTime   int    `json:"max_time,omitempty"`
}

// Config converts the request into a SimulationConfig. Only the algorithm
// name is checked here; the command builder validates the rest.
func (r SimulationRequest) Config() (SimulationConfig, error) {
	algo, err := ParseAlgorithm(r.Algorithm)
	if err != nil {
		return SimulationConfig{}, NewConfigurationError("%v", err)
	}
	return SimulationConfig{
		Algorithm: algo,
		Input:     InputSource{Path: r.File, Count: r.Generate},
		Quantum:   r.Quantum,
		MaxTime:   r.MaxTime,
	}, nil
}

// Version is the probsched release, reported by the CLI and the health endpoint.
var Version = "0.1.0"
