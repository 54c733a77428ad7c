package api

import (
	"net/http"
	"strings"
)

// MissionHandler serves reports for missions stored in the source.
type MissionHandler struct {
	deps Dependencies
}

// NewMissionHandler creates a new mission handler.
func NewMissionHandler(deps Dependencies) *MissionHandler {
	return &MissionHandler{deps: deps}
}

// HandleMissionReport handles GET /missions/{name}/report requests.
func (h *MissionHandler) HandleMissionReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.mission_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/missions/")
	name, ok := strings.CutSuffix(path, "/report")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if name == "" || strings.Contains(name, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rep, err := h.deps.AnalyzeMission(r.Context(), name)
	if err != nil {
		err = Wrap(op, err)
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(rep))
}
