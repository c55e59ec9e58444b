package config_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/okian/neuroshop/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.ProviderTimeoutMS, convey.ShouldEqual, 8000)
				convey.So(cfg.GatewayTimeoutMS, convey.ShouldEqual, 12000)
				convey.So(cfg.MaxQueryLength, convey.ShouldEqual, 200)
				convey.So(cfg.WarmupQueries, convey.ShouldResemble, []string{"iphone", "laptop", "tomato", "rice"})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("NEUROSHOP_ADDR", ":8080")
			_ = os.Setenv("NEUROSHOP_PROVIDER_TIMEOUT_MS", "2500")
			_ = os.Setenv("NEUROSHOP_USE_MOCK_DATA", "false")
			_ = os.Setenv("NEUROSHOP_PRICE_TOLERANCE", "0.05")
			_ = os.Setenv("NEUROSHOP_BROWSER_PROVIDERS", "flipkart,jiomart")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.ProviderTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.UseMockData, convey.ShouldBeFalse)
				convey.So(cfg.PriceTolerance, convey.ShouldEqual, 0.05)
				convey.So(cfg.BrowserProviders, convey.ShouldResemble, []string{"flipkart", "jiomart"})
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
search_cache_ttl_sec: 60
similarity_threshold: 0.9
warmup_queries:
  - onion
  - headphones
`)
			_ = os.Setenv("NEUROSHOP_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SearchCacheTTLSec, convey.ShouldEqual, 60)
				convey.So(cfg.SimilarityThreshold, convey.ShouldEqual, 0.9)
				convey.So(cfg.WarmupQueries, convey.ShouldResemble, []string{"onion", "headphones"})
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("NEUROSHOP_ADDR", ":7070")

				cfg, err := config.Load(ctx)

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.SearchCacheTTLSec, convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("NEUROSHOP_CONFIG", "/non/existent/file.yaml")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When an env var cannot be decoded", func() {
			_ = os.Setenv("NEUROSHOP_MAX_QUERY_LENGTH", "not_a_number")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("NEUROSHOP_PIPELINE_TIMEOUT_MS", "-1")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "NEUROSHOP_") {
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "neuroshop-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}
