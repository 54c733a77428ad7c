// Package cli implements the sortie-analyze command line tool.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	service "github.com/okian/sortie/internal/app"
	"github.com/okian/sortie/internal/config"
	"github.com/okian/sortie/internal/domain/eventlog"
	"github.com/okian/sortie/pkg/logger"
)

type rootOptions struct {
	logLevel    string
	unknownName string
}

type analyzeOptions struct {
	mission    string
	log        string
	track      string
	detections string
	targets    string
	tasks      string
}

// NewRootCommand builds the command tree. Reports are written to out as
// indented JSON; logs go to stderr.
func NewRootCommand(out io.Writer) *cobra.Command {
	var ro rootOptions

	root := &cobra.Command{
		Use:   "sortie-analyze",
		Short: "Correlate drone mission logs, tracks and detections",
		Long: `sortie-analyze pairs target enter/exit events from a mission log into dwell
windows, measures the flown track, catalogs targets and tags every detection
that falls inside a dwell window with its target.

Examples:
  sortie-analyze analyze --log events.log --track track.txt --detections detections.json --targets targets.json --tasks tasks.json
  sortie-analyze mission 2024-05-01 --dir ./missions`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.InitWithOptions(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(ro.logLevel)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&ro.unknownName, "unknown-name", "", "name reported for targets missing from the catalog")

	root.AddCommand(newAnalyzeCommand(&ro), newMissionCommand(&ro))
	return root
}

func newAnalyzeCommand(ro *rootOptions) *cobra.Command {
	var o analyzeOptions
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze loose artifact files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := o.inputs()
			if err != nil {
				return err
			}
			svc := service.New(service.WithUnknownTargetName(ro.unknownName))
			rep, err := svc.Analyze(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&o.mission, "mission", "", "mission label carried into the report")
	cmd.Flags().StringVar(&o.log, "log", "", "event log file")
	cmd.Flags().StringVar(&o.track, "track", "", "navigation track file")
	cmd.Flags().StringVar(&o.detections, "detections", "", "detections JSON file")
	cmd.Flags().StringVar(&o.targets, "targets", "", "target metadata JSON file")
	cmd.Flags().StringVar(&o.tasks, "tasks", "", "task plan JSON file")
	return cmd
}

func newMissionCommand(ro *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "mission <name>",
		Short: "Analyze a mission folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if dir != "" {
				cfg.MissionsDir = dir
			}
			if ro.unknownName != "" {
				cfg.UnknownTargetName = ro.unknownName
			}
			rep, err := service.NewFromConfig(cfg).AnalyzeMission(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "missions root folder (default from SORTIE_MISSIONS_DIR)")
	return cmd
}

// inputs reads every given file. Omitted files are empty input.
func (o analyzeOptions) inputs() (service.Inputs, error) {
	in := service.Inputs{Mission: o.mission}
	logData, err := readArtifact(o.log)
	if err != nil {
		return in, err
	}
	if len(logData) > 0 {
		if in.LogLines, err = eventlog.ReadLines(bytes.NewReader(logData)); err != nil {
			return in, err
		}
	}
	track, err := readArtifact(o.track)
	if err != nil {
		return in, err
	}
	in.Track = string(track)
	if in.Detections, err = readArtifact(o.detections); err != nil {
		return in, err
	}
	if in.Targets, err = readArtifact(o.targets); err != nil {
		return in, err
	}
	if in.Tasks, err = readArtifact(o.tasks); err != nil {
		return in, err
	}
	return in, nil
}

// readArtifact reads path, decompressing files with a .zst suffix.
func readArtifact(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func writeReport(w io.Writer, rep service.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// Execute runs the root command with ctx and returns its error.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand(os.Stdout)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
