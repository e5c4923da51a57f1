package config_test

import (
	"runtime"
	"testing"

	"github.com/prixsix/engine/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.StoreDriver, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.SQLitePath, convey.ShouldEqual, "prixsix.db")
			convey.So(cfg.ScoringWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxStandingsLimit, convey.ShouldEqual, 100)
		})
	})
}
