package api

import (
	"time"

	service "github.com/okian/sortie/internal/app"
	"github.com/okian/sortie/internal/domain/model"
)

// reportResponse decorates a report with display timestamps. Fields named
// like the embedded ones take precedence when encoded.
type reportResponse struct {
	service.Report
	FlightStart string               `json:"flight_start,omitempty"`
	FlightEnd   string               `json:"flight_end,omitempty"`
	Intervals   []intervalResponse   `json:"intervals"`
	Correlated  []correlatedResponse `json:"correlated"`
}

type intervalResponse struct {
	model.DwellInterval
	Entry string `json:"entry"`
	Exit  string `json:"exit"`
}

type correlatedResponse struct {
	model.CorrelatedDetection
	Time string `json:"time"`
}

func newReportResponse(rep service.Report) reportResponse {
	out := reportResponse{
		Report:     rep,
		Intervals:  make([]intervalResponse, 0, len(rep.Intervals)),
		Correlated: make([]correlatedResponse, 0, len(rep.Correlated)),
	}
	if rep.FlightStartMs != 0 {
		out.FlightStart = rfc3339(rep.FlightStartMs)
	}
	if rep.FlightEndMs != 0 {
		out.FlightEnd = rfc3339(rep.FlightEndMs)
	}
	for _, iv := range rep.Intervals {
		out.Intervals = append(out.Intervals, intervalResponse{
			DwellInterval: iv,
			Entry:         rfc3339(iv.EntryMs),
			Exit:          rfc3339(iv.ExitMs),
		})
	}
	for _, d := range rep.Correlated {
		out.Correlated = append(out.Correlated, correlatedResponse{
			CorrelatedDetection: d,
			Time:                rfc3339(d.TimestampMs),
		})
	}
	return out
}

func rfc3339(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339Nano)
}
