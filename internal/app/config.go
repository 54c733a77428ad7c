package service

import (
	"time"

	"github.com/okian/sortie/internal/adapters/source"
	"github.com/okian/sortie/internal/config"
)

// NewFromConfig constructs a Service reading missions from cfg.MissionsDir.
// Extra options are applied after the configured ones.
func NewFromConfig(cfg *config.Config, opts ...Option) *Service {
	src := source.NewFileSource(cfg.MissionsDir, source.WithLayout(source.Layout{
		LogFile:        cfg.LogFile,
		TrackFile:      cfg.TrackFile,
		DetectionsFile: cfg.DetectionsFile,
		TargetsFile:    cfg.TargetsFile,
		TasksFile:      cfg.TasksFile,
	}))
	base := []Option{
		WithSource(src),
		WithUnknownTargetName(cfg.UnknownTargetName),
		WithFetchTimeout(time.Duration(cfg.FetchTimeoutMS) * time.Millisecond),
	}
	return New(append(base, opts...)...)
}
