package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	config "github.com/arbiterhq/arbiter/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given a fresh default configuration", t, func() {
		cfg := config.New(context.Background())

		Convey("Then the service defaults are set", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.QueueSize, ShouldEqual, 100_000)
			So(cfg.WorkerCount, ShouldEqual, runtime.NumCPU()*4)
			So(cfg.DedupeSize, ShouldEqual, 500_000)
			So(cfg.ShardCount, ShouldEqual, 8)
			So(cfg.HistoryWindow, ShouldEqual, 50)
			So(cfg.MaxSuspectsLimit, ShouldEqual, 100)
		})

		Convey("Then the validation tuning defaults are set", func() {
			So(cfg.MinSampleSize, ShouldEqual, 5)
			So(cfg.SigmaThreshold, ShouldEqual, 3.0)
			So(cfg.RetentionDays, ShouldEqual, 730)
			So(cfg.DeductionOverrides, ShouldBeNil)
			So(cfg.RedisAddr, ShouldBeEmpty)
		})
	})
}

func TestLoadEnv(t *testing.T) {
	Convey("Given environment overrides", t, func() {
		ctx := context.Background()

		Convey("When scalar values are overridden", func() {
			t.Setenv("ARBITER_ADDR", ":7070")
			t.Setenv("ARBITER_QUEUE_SIZE", "123")
			t.Setenv("ARBITER_WORKER_COUNT", "3")
			t.Setenv("ARBITER_LOG_LEVEL", "debug")

			cfg, err := config.Load(ctx)

			Convey("Then they replace the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":7070")
				So(cfg.QueueSize, ShouldEqual, 123)
				So(cfg.WorkerCount, ShouldEqual, 3)
				So(cfg.LogLevel, ShouldEqual, "debug")
			})

			Convey("And untouched fields keep their defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.ShardCount, ShouldEqual, 8)
				So(cfg.SigmaThreshold, ShouldEqual, 3.0)
			})
		})

		Convey("When tuning values are overridden", func() {
			t.Setenv("ARBITER_SIGMA_THRESHOLD", "2.5")
			t.Setenv("ARBITER_MIN_SAMPLE_SIZE", "8")
			t.Setenv("ARBITER_RETENTION_DAYS", "365")
			t.Setenv("ARBITER_REDIS_ADDR", "localhost:6379")

			cfg, err := config.Load(ctx)

			Convey("Then the validation pipeline tuning follows", func() {
				So(err, ShouldBeNil)
				So(cfg.SigmaThreshold, ShouldEqual, 2.5)
				So(cfg.MinSampleSize, ShouldEqual, 8)
				So(cfg.RetentionDays, ShouldEqual, 365)
				So(cfg.RedisAddr, ShouldEqual, "localhost:6379")
			})
		})
	})
}

func TestLoadFile(t *testing.T) {
	Convey("Given a YAML configuration file", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		path := filepath.Join(dir, "arbiter.yaml")

		content := []byte("addr: \":6060\"\nworker_count: 2\ndeduction_overrides:\n  RESULT_MISMATCH: 40\n")
		So(os.WriteFile(path, content, 0o600), ShouldBeNil)
		t.Setenv("ARBITER_CONFIG", path)

		Convey("When the configuration is loaded", func() {
			cfg, err := config.Load(ctx)

			Convey("Then file values replace the defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.WorkerCount, ShouldEqual, 2)
				So(cfg.DeductionOverrides, ShouldResemble, map[string]float64{"RESULT_MISMATCH": 40})
			})
		})

		Convey("When an environment variable overrides a file value", func() {
			t.Setenv("ARBITER_ADDR", ":5050")

			cfg, err := config.Load(ctx)

			Convey("Then the environment wins", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
				So(cfg.WorkerCount, ShouldEqual, 2)
			})
		})

		Convey("When the file does not exist", func() {
			t.Setenv("ARBITER_CONFIG", filepath.Join(dir, "missing.yaml"))

			_, err := config.Load(ctx)

			Convey("Then loading fails with a config error", func() {
				So(err, ShouldWrap, config.ErrLoadConfig)
			})
		})
	})
}

func TestLoadValidation(t *testing.T) {
	Convey("Given invalid configuration values", t, func() {
		ctx := context.Background()

		cases := map[string]struct {
			key, value string
		}{
			"an empty listen address":    {"ARBITER_ADDR", ""},
			"a non-positive sigma":       {"ARBITER_SIGMA_THRESHOLD", "-1"},
			"a zero minimum sample size": {"ARBITER_MIN_SAMPLE_SIZE", "0"},
			"a non-positive retention":   {"ARBITER_RETENTION_DAYS", "0"},
		}

		for name, tc := range cases {
			Convey("When loading with "+name, func() {
				t.Setenv(tc.key, tc.value)

				_, err := config.Load(ctx)

				Convey("Then loading fails with a validation error", func() {
					So(err, ShouldWrap, config.ErrInvalidConfig)
				})
			})
		}
	})
}
