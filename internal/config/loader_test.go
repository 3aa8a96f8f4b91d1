package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/diamond/internal/config"
	"github.com/okian/diamond/internal/domain/fatigue"
	"github.com/okian/diamond/internal/domain/tiering"
)

var configEnvVars = []string{
	config.EnvConfigPath,
	"DIAMOND_ADDR",
	"DIAMOND_QUEUE_SIZE",
	"DIAMOND_WORKER_COUNT",
	"DIAMOND_LOG_JSON",
	"DIAMOND_GEM_MAX_PRICE",
	"DIAMOND_ELITE_MIN_DIAMOND",
	"DIAMOND_FATIGUE_HALF_LIFE_MIN",
}

func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diamond.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.FatigueHalfLifeMin, convey.ShouldEqual, fatigue.DefaultHalfLifeMinutes)
			convey.So(cfg.FatiguePitchIntervalMin, convey.ShouldEqual, fatigue.DefaultPitchIntervalMinutes)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.Thresholds, convey.ShouldResemble, tiering.DefaultThresholds())
			convey.So(cfg.FatigueOptions(), convey.ShouldHaveLength, 4)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		cases := []func(*config.Config){
			func(c *config.Config) { c.Addr = "" },
			func(c *config.Config) { c.FatigueHalfLifeMin = 0 },
			func(c *config.Config) { c.FatiguePitchIntervalMin = -1 },
			func(c *config.Config) { c.MaxLeaderboardLimit = 0 },
			func(c *config.Config) { c.SignalWeights = map[string]float64{"trajectory_zone_fit": 0.9} },
			func(c *config.Config) { c.SignalWeights = map[string]float64{"no_such_signal": 0} },
		}
		for _, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
		}
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogJSON, convey.ShouldBeFalse)
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("DIAMOND_ADDR", ":8080")
			t.Setenv("DIAMOND_QUEUE_SIZE", "500")
			t.Setenv("DIAMOND_WORKER_COUNT", "3")
			t.Setenv("DIAMOND_LOG_JSON", "true")
			t.Setenv("DIAMOND_GEM_MAX_PRICE", "4.5")
			t.Setenv("DIAMOND_ELITE_MIN_DIAMOND", "82")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 500)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 3)
			convey.So(cfg.LogJSON, convey.ShouldBeTrue)
			convey.So(cfg.Thresholds.GemMaxPrice, convey.ShouldEqual, 4.5)
			convey.So(cfg.Thresholds.EliteMinDiamond, convey.ShouldEqual, 82)
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfig(t, `
addr: ":9090"
worker_count: 2
gem_min_diamond: 70
elite_min_diamond: 85
upside_min_bust: 55
value_min_value: 65
avoid_max_diamond: 45
mismatch_min: 35
signal_weights:
  trajectory_zone_fit: 0.15
  unexplained_movement: 0.20
`)
			t.Setenv(config.EnvConfigPath, path)

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
			convey.So(cfg.Thresholds.GemMinDiamond, convey.ShouldEqual, 70)
			convey.So(cfg.Thresholds.EliteMinDiamond, convey.ShouldEqual, 85)
			convey.So(cfg.Thresholds.UpsideMinBust, convey.ShouldEqual, 55)
			convey.So(cfg.Thresholds.ValueMinValue, convey.ShouldEqual, 65)
			convey.So(cfg.Thresholds.AvoidMaxDiamond, convey.ShouldEqual, 45)
			convey.So(cfg.Thresholds.MismatchMin, convey.ShouldEqual, 35)
			convey.So(cfg.Thresholds.EliteMaxBust, convey.ShouldEqual, tiering.DefaultThresholds().EliteMaxBust)
			convey.So(cfg.SignalWeights, convey.ShouldContainKey, "unexplained_movement")

			convey.Convey("Then env still wins over the file", func() {
				t.Setenv("DIAMOND_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the file does not exist", func() {
			t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a loaded value is invalid", func() {
			t.Setenv("DIAMOND_FATIGUE_HALF_LIFE_MIN", "0")
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

func TestConfigWatch(t *testing.T) {
	convey.Convey("Given a watched config file", t, func() {
		clearConfigEnvVars(t)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		path := writeConfig(t, "gem_max_price: 6\n")
		got := make(chan *config.Config, 16)
		err := config.Watch(ctx, path, func(c *config.Config) {
			select {
			case got <- c:
			default:
			}
		}, nil)
		convey.So(err, convey.ShouldBeNil)

		convey.So(os.WriteFile(path, []byte("gem_max_price: 3\nmismatch_min: 30\n"), 0o600), convey.ShouldBeNil)

		// A truncate can surface as an intermediate reload; wait for the final content.
		var last *config.Config
		timeout := time.After(5 * time.Second)
	wait:
		for {
			select {
			case last = <-got:
				if last.Thresholds.GemMaxPrice == 3 {
					break wait
				}
			case <-timeout:
				break wait
			}
		}
		convey.So(last, convey.ShouldNotBeNil)
		convey.So(last.Thresholds.GemMaxPrice, convey.ShouldEqual, 3)
		convey.So(last.Thresholds.MismatchMin, convey.ShouldEqual, 30)
	})

	convey.Convey("Watching without a path fails", t, func() {
		err := config.Watch(context.Background(), "", func(*config.Config) {}, nil)
		convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
	})
}
