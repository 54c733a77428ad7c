package api

import (
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/sortie/internal/app"
)

// analyzeRequest is the body of POST /analyze. Detections, targets and tasks are
// kept raw so that malformed records are accounted for by the pipeline
// instead of failing the request.
type analyzeRequest struct {
	Mission    string          `json:"mission"`
	LogLines   []string        `json:"log_lines"`
	Track      string          `json:"track"`
	Detections json.RawMessage `json:"detections"`
	Targets    json.RawMessage `json:"targets"`
	Tasks      json.RawMessage `json:"tasks"`
}

func (r analyzeRequest) inputs() service.Inputs {
	return service.Inputs{
		Mission:    r.Mission,
		LogLines:   r.LogLines,
		Track:      r.Track,
		Detections: r.Detections,
		Targets:    r.Targets,
		Tasks:      r.Tasks,
	}
}

// AnalyzeHandler handles inline analysis requests.
type AnalyzeHandler struct {
	deps         Dependencies
	maxBodyBytes int64
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps Dependencies, maxBodyBytes int64) *AnalyzeHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &AnalyzeHandler{deps: deps, maxBodyBytes: maxBodyBytes}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req analyzeRequest
	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = WrapKind(op, ErrPayloadTooLarge, err)
		} else {
			err = WrapKind(op, ErrBadRequest, err)
		}
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}

	rep, err := h.deps.Analyze(r.Context(), req.inputs())
	if err != nil {
		err = WrapKind(op, ErrAnalysis, err)
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(rep))
}
