package config_test

import (
	"testing"

	"github.com/okian/sortie/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.MissionsDir, convey.ShouldEqual, "./missions")
			convey.So(cfg.LogFile, convey.ShouldEqual, "events.log")
			convey.So(cfg.TrackFile, convey.ShouldEqual, "track.txt")
			convey.So(cfg.DetectionsFile, convey.ShouldEqual, "detections.json")
			convey.So(cfg.TargetsFile, convey.ShouldEqual, "targets.json")
			convey.So(cfg.TasksFile, convey.ShouldEqual, "tasks.json")
			convey.So(cfg.UnknownTargetName, convey.ShouldEqual, "unknown")
			convey.So(cfg.MaxBodyBytes, convey.ShouldEqual, 32<<20)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
