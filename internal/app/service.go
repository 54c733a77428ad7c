// Package service runs mission analyses: it fetches or accepts the raw
// mission artifacts, parses them, pairs dwell windows, catalogs targets and
// correlates detections into a single Report.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/sortie/internal/domain/catalog"
	"github.com/okian/sortie/internal/domain/correlate"
	"github.com/okian/sortie/internal/domain/detection"
	"github.com/okian/sortie/internal/domain/dwell"
	"github.com/okian/sortie/internal/domain/eventlog"
	"github.com/okian/sortie/internal/domain/model"
	"github.com/okian/sortie/internal/domain/task"
	"github.com/okian/sortie/internal/domain/track"
	"github.com/okian/sortie/pkg/logger"
	"github.com/okian/sortie/pkg/metrics"
)

// Source fetches raw mission artifacts by mission name.
type Source interface {
	FetchLog(ctx context.Context, mission string) ([]string, error)
	FetchTrack(ctx context.Context, mission string) (string, error)
	FetchDetections(ctx context.Context, mission string) ([]byte, error)
	FetchTargets(ctx context.Context, mission string) ([]byte, error)
	FetchTasks(ctx context.Context, mission string) ([]byte, error)
}

// Inputs holds the raw artifacts of one mission.
type Inputs struct {
	Mission    string
	LogLines   []string
	Track      string
	Detections []byte
	Targets    []byte
	Tasks      []byte
}

// TargetDuration is the dwell summary of one target id seen in the log.
type TargetDuration struct {
	TargetID   string  `json:"target_id"`
	TargetName string  `json:"target_name"`
	Seconds    float64 `json:"seconds"`
	Intervals  int     `json:"intervals"`
	Enters     int     `json:"enters"`
}

// ParseStats reports how much of each input was usable.
type ParseStats struct {
	EventLog   eventlog.Stats      `json:"event_log"`
	Track      track.Stats         `json:"track"`
	Detections detection.Stats     `json:"detections"`
	Targets    catalog.DecodeStats `json:"targets"`
	Tasks      task.Stats          `json:"tasks"`
	// DetectionsUndecodable is set when the detection payload was not a
	// JSON array and was treated as empty.
	DetectionsUndecodable bool `json:"detections_undecodable,omitempty"`
	// TasksUndecodable is the same for the task payload.
	TasksUndecodable bool `json:"tasks_undecodable,omitempty"`
}

// Report is the outcome of one analysis run.
type Report struct {
	RunID   string `json:"run_id"`
	Mission string `json:"mission,omitempty"`

	Events          []model.Event         `json:"events"`
	Intervals       []model.DwellInterval `json:"intervals"`
	Flights         []model.Flight        `json:"flights"`
	MissionSeconds  float64               `json:"mission_seconds"`
	FlightStartMs   int64                 `json:"flight_start_ms"`
	FlightEndMs     int64                 `json:"flight_end_ms"`
	TargetDurations []TargetDuration      `json:"target_durations"`
	EnterCounts     map[string]int        `json:"enter_counts"`

	Targets        []model.Target        `json:"targets"`
	GroupDistances []track.GroupDistance `json:"group_distances"`

	TrackPoints     []model.TrackPoint `json:"track_points"`
	TotalDistanceKm float64            `json:"total_distance_km"`

	Detections       []model.DetectionPoint      `json:"detections"`
	Correlated       []model.CorrelatedDetection `json:"correlated"`
	DetectionSummary []correlate.Summary         `json:"detection_summary"`

	Tasks         []model.Task       `json:"tasks"`
	TotalLegs     int                `json:"total_legs"`
	LegsPerTarget []model.TargetLegs `json:"legs_per_target"`

	Stats ParseStats `json:"stats"`
}

// Service implements the analysis pipeline used by the HTTP API and CLI.
type Service struct {
	source       Source
	unknownName  string
	extractors   []catalog.Extractor
	fetchTimeout time.Duration
	logger       logger.Logger

	runs     atomic.Int64
	failures atomic.Int64

	mu          sync.RWMutex
	lastRunID   string
	lastMission string
	lastRunAt   time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the mission source used by AnalyzeMission.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUnknownTargetName sets the name reported for unresolvable target ids.
func WithUnknownTargetName(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.unknownName = name
		}
	}
}

// WithExtractors replaces the target record extractors.
func WithExtractors(extractors ...catalog.Extractor) Option {
	return func(s *Service) {
		if len(extractors) > 0 {
			s.extractors = extractors
		}
	}
}

// WithFetchTimeout bounds the time spent fetching one mission.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		unknownName:  catalog.DefaultUnknownName,
		extractors:   catalog.DefaultExtractors(),
		fetchTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Analyze runs the full pipeline over in-memory inputs. Data quality
// problems never fail a run; they show up in Report.Stats.
func (s *Service) Analyze(ctx context.Context, in Inputs) (Report, error) {
	start := time.Now()
	rep := Report{RunID: uuid.NewString(), Mission: in.Mission}
	log := s.logger.With(logger.String("runID", rep.RunID), logger.String("mission", in.Mission))

	var (
		windows dwell.Windows
		cat     *catalog.Catalog
	)

	// The parsers are independent and never fail; correlation waits for
	// all of them.
	var wg sync.WaitGroup
	wg.Add(5)
	go func() {
		defer wg.Done()
		rep.Events, rep.Stats.EventLog = eventlog.ParseWithStats(in.LogLines)
		windows = dwell.Build(rep.Events)
	}()
	go func() {
		defer wg.Done()
		rep.TrackPoints, rep.Stats.Track = track.ParseWithStats(in.Track)
		rep.TotalDistanceKm = track.TotalKm(rep.TrackPoints)
	}()
	go func() {
		defer wg.Done()
		raw, err := detection.Decode(in.Detections)
		if err != nil {
			log.Warn(ctx, "detections treated as empty", logger.Error(err))
			rep.Stats.DetectionsUndecodable = true
		}
		rep.Detections, rep.Stats.Detections = detection.Ingest(raw)
	}()
	go func() {
		defer wg.Done()
		var records []catalog.Record
		records, rep.Stats.Targets = catalog.DecodeJSON(in.Targets, s.extractors...)
		cat = catalog.New(records, catalog.WithUnknownName(s.unknownName))
		rep.Targets = cat.Targets()
		rep.GroupDistances = track.GroupDistancesKm(cat.Groups())
	}()
	go func() {
		defer wg.Done()
		tasks, stats, err := task.Decode(in.Tasks)
		if err != nil {
			log.Warn(ctx, "tasks treated as empty", logger.Error(err))
			rep.Stats.TasksUndecodable = true
		}
		if tasks == nil {
			tasks = make([]model.Task, 0)
		}
		rep.Tasks, rep.Stats.Tasks = tasks, stats
		rep.TotalLegs = task.TotalLegs(tasks)
		rep.LegsPerTarget = task.LegsPerTarget(tasks, s.unknownName)
	}()
	wg.Wait()

	rep.Intervals = windows.Intervals
	rep.Flights = windows.Flights
	rep.MissionSeconds = windows.MissionSeconds
	rep.FlightStartMs = windows.FlightStartMs
	rep.FlightEndMs = windows.FlightEndMs
	rep.EnterCounts = windows.EnterCounts()
	rep.TargetDurations = targetDurations(windows, cat)

	rep.Correlated = correlate.Correlate(rep.Intervals, rep.Detections, cat)
	rep.DetectionSummary = correlate.Summarize(rep.Correlated)

	s.record(rep, start)
	log.Info(ctx, "analysis completed",
		logger.Int("events", len(rep.Events)),
		logger.Int("intervals", len(rep.Intervals)),
		logger.Int("targets", len(rep.Targets)),
		logger.Int("correlated", len(rep.Correlated)),
		logger.Int("legs", rep.TotalLegs),
		logger.Float64("distanceKm", rep.TotalDistanceKm),
		logger.Duration("elapsed", time.Since(start)),
	)
	return rep, nil
}

// AnalyzeMission fetches the mission artifacts from the configured source
// concurrently and analyzes them.
func (s *Service) AnalyzeMission(ctx context.Context, mission string) (Report, error) {
	if s.source == nil {
		return Report{}, ErrNoSource
	}
	in, err := s.fetch(ctx, mission)
	if err != nil {
		s.failures.Add(1)
		metrics.RecordAnalysisRun("error")
		s.logger.Warn(ctx, "mission fetch failed", logger.String("mission", mission), logger.Error(err))
		return Report{}, err
	}
	return s.Analyze(ctx, in)
}

func (s *Service) fetch(ctx context.Context, mission string) (Inputs, error) {
	start := time.Now()
	defer func() {
		metrics.RecordFetchLatency(float64(time.Since(start).Milliseconds()))
	}()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	in := Inputs{Mission: mission}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.LogLines, err = s.source.FetchLog(gctx, mission)
		return err
	})
	g.Go(func() (err error) {
		in.Track, err = s.source.FetchTrack(gctx, mission)
		return err
	})
	g.Go(func() (err error) {
		in.Detections, err = s.source.FetchDetections(gctx, mission)
		return err
	})
	g.Go(func() (err error) {
		in.Targets, err = s.source.FetchTargets(gctx, mission)
		return err
	})
	g.Go(func() (err error) {
		in.Tasks, err = s.source.FetchTasks(gctx, mission)
		return err
	})
	if err := g.Wait(); err != nil {
		return Inputs{}, fmt.Errorf("%w: %s: %w", ErrFetchMission, mission, err)
	}
	return in, nil
}

func (s *Service) record(rep Report, start time.Time) {
	s.runs.Add(1)
	s.mu.Lock()
	s.lastRunID = rep.RunID
	s.lastMission = rep.Mission
	s.lastRunAt = start
	s.mu.Unlock()

	metrics.RecordAnalysisRun("ok")
	metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	metrics.RecordParsed(metrics.InputEventLog, rep.Stats.EventLog.Matched)
	metrics.RecordSkipped(metrics.InputEventLog, rep.Stats.EventLog.Skipped)
	metrics.RecordParsed(metrics.InputTrack, rep.Stats.Track.Samples)
	metrics.RecordSkipped(metrics.InputTrack, rep.Stats.Track.Dropped)
	metrics.RecordParsed(metrics.InputDetections, rep.Stats.Detections.Accepted)
	metrics.RecordSkipped(metrics.InputDetections, rep.Stats.Detections.Excluded)
	metrics.RecordParsed(metrics.InputTargets, rep.Stats.Targets.Flat+rep.Stats.Targets.Nested)
	metrics.RecordSkipped(metrics.InputTargets, rep.Stats.Targets.Rejected)
	metrics.RecordParsed(metrics.InputTasks, rep.Stats.Tasks.Accepted)
	metrics.RecordSkipped(metrics.InputTasks, rep.Stats.Tasks.Rejected)
	metrics.RecordDwellIntervals(len(rep.Intervals))
	metrics.RecordCorrelated(len(rep.Correlated))
	metrics.UpdateCataloguedTargets(len(rep.Targets))
	metrics.UpdateTrackDistance(rep.TotalDistanceKm)
}

func targetDurations(w dwell.Windows, cat *catalog.Catalog) []TargetDuration {
	ids := w.Targets()
	enters := w.EnterCounts()
	out := make([]TargetDuration, 0, len(ids))
	for _, id := range ids {
		out = append(out, TargetDuration{
			TargetID:   id,
			TargetName: cat.Resolve(id),
			Seconds:    w.Total(id),
			Intervals:  len(w.For(id)),
			Enters:     enters[id],
		})
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"runs":          s.runs.Load(),
		"failures":      s.failures.Load(),
		"sourceEnabled": s.source != nil,
		"unknownName":   s.unknownName,
	}
	if s.lastRunID != "" {
		stats["lastRunID"] = s.lastRunID
		stats["lastMission"] = s.lastMission
		stats["lastRunAt"] = s.lastRunAt.UTC().Format(time.RFC3339)
	}
	return stats
}
