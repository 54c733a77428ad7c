// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional .env file, an optional YAML file and SORTIE_ env vars.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MissionsDir is the root folder holding one sub-folder per mission.
	MissionsDir string `koanf:"missions_dir"`

	// Artifact file names inside a mission folder. A ".zst" sibling is
	// read when the plain file is absent.
	LogFile        string `koanf:"log_file"`
	TrackFile      string `koanf:"track_file"`
	DetectionsFile string `koanf:"detections_file"`
	TargetsFile    string `koanf:"targets_file"`
	TasksFile      string `koanf:"tasks_file"`

	// UnknownTargetName tags detections whose target id has no catalog entry.
	UnknownTargetName string `koanf:"unknown_target_name"`

	// MaxBodyBytes caps POST /analyze payloads.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// FetchTimeoutMS bounds artifact fetching for one mission.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		MissionsDir:       "./missions",
		LogFile:           "events.log",
		TrackFile:         "track.txt",
		DetectionsFile:    "detections.json",
		TargetsFile:       "targets.json",
		TasksFile:         "tasks.json",
		UnknownTargetName: "unknown",
		MaxBodyBytes:      32 << 20,
		FetchTimeoutMS:    10_000,
	}
}
