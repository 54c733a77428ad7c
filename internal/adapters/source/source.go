// Package source reads raw mission artifacts from a folder per mission.
//
// Layout under the root:
//
//	<mission>/events.log       event log lines
//	<mission>/track.txt        ; separated navigation samples
//	<mission>/detections.json  detection array
//	<mission>/targets.json     target metadata array
//	<mission>/tasks.json       task plan array
//
// Any artifact may instead be stored zstd-compressed with a ".zst" suffix.
// A missing artifact is read as empty input; a missing mission folder is an
// error.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/okian/sortie/internal/domain/eventlog"
)

const zstdSuffix = ".zst"

// Layout names the artifact files inside a mission folder.
type Layout struct {
	LogFile        string
	TrackFile      string
	DetectionsFile string
	TargetsFile    string
	TasksFile      string
}

// DefaultLayout returns the conventional artifact names.
func DefaultLayout() Layout {
	return Layout{
		LogFile:        "events.log",
		TrackFile:      "track.txt",
		DetectionsFile: "detections.json",
		TargetsFile:    "targets.json",
		TasksFile:      "tasks.json",
	}
}

// FileSource fetches artifacts from a filesystem tree.
type FileSource struct {
	fsys   fs.FS
	layout Layout
}

// Option applies a configuration option to the FileSource.
type Option func(*FileSource)

// WithFS replaces the backing filesystem, e.g. with fstest.MapFS in tests.
func WithFS(fsys fs.FS) Option {
	return func(s *FileSource) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// WithLayout overrides artifact file names; empty names keep the default.
func WithLayout(l Layout) Option {
	return func(s *FileSource) {
		if l.LogFile != "" {
			s.layout.LogFile = l.LogFile
		}
		if l.TrackFile != "" {
			s.layout.TrackFile = l.TrackFile
		}
		if l.DetectionsFile != "" {
			s.layout.DetectionsFile = l.DetectionsFile
		}
		if l.TargetsFile != "" {
			s.layout.TargetsFile = l.TargetsFile
		}
		if l.TasksFile != "" {
			s.layout.TasksFile = l.TasksFile
		}
	}
}

// NewFileSource serves missions stored under root.
func NewFileSource(root string, opts ...Option) *FileSource {
	s := &FileSource{
		fsys:   os.DirFS(root),
		layout: DefaultLayout(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchLog returns the raw event log lines.
func (s *FileSource) FetchLog(ctx context.Context, mission string) ([]string, error) {
	data, err := s.read(ctx, mission, s.layout.LogFile)
	if err != nil || len(data) == 0 {
		return nil, err
	}
	lines, err := eventlog.ReadLines(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadArtifact, err)
	}
	return lines, nil
}

// FetchTrack returns the raw track text.
func (s *FileSource) FetchTrack(ctx context.Context, mission string) (string, error) {
	data, err := s.read(ctx, mission, s.layout.TrackFile)
	return string(data), err
}

// FetchDetections returns the raw detection JSON.
func (s *FileSource) FetchDetections(ctx context.Context, mission string) ([]byte, error) {
	return s.read(ctx, mission, s.layout.DetectionsFile)
}

// FetchTargets returns the raw target metadata JSON.
func (s *FileSource) FetchTargets(ctx context.Context, mission string) ([]byte, error) {
	return s.read(ctx, mission, s.layout.TargetsFile)
}

// FetchTasks returns the raw task plan JSON.
func (s *FileSource) FetchTasks(ctx context.Context, mission string) ([]byte, error) {
	return s.read(ctx, mission, s.layout.TasksFile)
}

func (s *FileSource) read(ctx context.Context, mission, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validMission(mission); err != nil {
		return nil, err
	}
	info, err := fs.Stat(s.fsys, mission)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrMissionNotFound, mission)
	}

	path := mission + "/" + name
	data, err := fs.ReadFile(s.fsys, path)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadArtifact, path, err)
	}

	data, err = s.readCompressed(path + zstdSuffix)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

func (s *FileSource) readCompressed(path string) ([]byte, error) {
	f, err := s.fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadArtifact, path, err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadArtifact, path, err)
	}
	return data, nil
}

func validMission(mission string) error {
	if mission == "" || strings.ContainsAny(mission, `/\`) || !fs.ValidPath(mission) || mission == "." {
		return fmt.Errorf("%w: %q", ErrInvalidMission, mission)
	}
	return nil
}
