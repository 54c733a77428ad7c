package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/sortie/internal/adapters/http/api"
	app "github.com/okian/sortie/internal/app"
	"github.com/okian/sortie/internal/config"
	"github.com/okian/sortie/pkg/logger"
	"github.com/okian/sortie/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWithOptions(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func isolateEnv(t *testing.T) {
	t.Helper()
	empty := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SORTIE_ENV_FILE", empty)
	t.Setenv("SORTIE_CONFIG", "")
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a missions folder and matching environment", t, func() {
		isolateEnv(t)
		root := t.TempDir()
		mission := filepath.Join(root, "m1")
		convey.So(os.MkdirAll(mission, 0o755), convey.ShouldBeNil)
		convey.So(os.WriteFile(filepath.Join(mission, "events.log"),
			[]byte("1000 - INFO: TAKEOFF DETECTED\n1200 - INFO: LANDING DETECTED\n"), 0o600), convey.ShouldBeNil)
		t.Setenv("SORTIE_ADDR", ":0")
		t.Setenv("SORTIE_MISSIONS_DIR", root)

		convey.Convey("Then configuration, service and routes should work together", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.MissionsDir, convey.ShouldEqual, root)

			svc := app.NewFromConfig(cfg)
			mux := http.NewServeMux()
			api.NewServer(svc, svc, api.WithMaxBodyBytes(cfg.MaxBodyBytes)).Register(mux)

			req := httptest.NewRequest(http.MethodGet, "/missions/m1/report", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"mission_seconds":200`)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given an invalid body limit in the environment", t, func() {
		isolateEnv(t)
		t.Setenv("SORTIE_MAX_BODY_BYTES", "0")

		convey.Convey("Then configuration loading should fail", func() {
			cfg, err := config.Load(context.Background())
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update should not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop should return once the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			done := make(chan struct{})
			go func() {
				startSystemMetricsUpdater(ctx)
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("metrics updater did not stop")
			}
		})

		convey.Convey("Then the registry should expose the memory gauge", func() {
			updateSystemMetrics()
			families, err := metrics.GetRegistry().Gather()
			convey.So(err, convey.ShouldBeNil)
			names := make([]string, 0, len(families))
			for _, f := range families {
				names = append(names, f.GetName())
			}
			convey.So(names, convey.ShouldContain, "sortie_analysis_system_memory_usage_bytes")
		})
	})
}
