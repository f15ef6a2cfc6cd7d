package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/optiwork/internal/app"
	"github.com/okian/optiwork/internal/config"
	"github.com/okian/optiwork/pkg/logger"
	"github.com/okian/optiwork/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("OPTIWORK_ADDR", ":8080")
			_ = os.Setenv("OPTIWORK_EVENT_QUEUE_SIZE", "100")
			defer func() {
				_ = os.Unsetenv("OPTIWORK_ADDR")
				_ = os.Unsetenv("OPTIWORK_EVENT_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When building the service from configuration", func() {
			cfg := config.New()
			cfg.EventQueueSize = 32
			svc := newService(cfg, logger.Get())

			convey.Convey("Then the configured values are applied", func() {
				stats := svc.GetStats()
				convey.So(stats["queueSize"], convey.ShouldEqual, 32)
				convey.So(stats["started"], convey.ShouldEqual, false)
			})
		})

		convey.Convey("When testing metrics initialization", func() {
			convey.Convey("Then metrics manager should be creatable", func() {
				manager := metrics.NewManager(metrics.WithPrometheusRegistry(prometheus.NewRegistry()))
				convey.So(manager, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When metrics are configured from config", func() {
			cfg := config.New()
			cfg.MetricsNamespace = "plant"
			configureMetrics(cfg)
			defer configureMetrics(config.New())

			metrics.RecordStoreOperation("reset", "ok")

			convey.Convey("Then the registry uses the configured namespace", func() {
				mfs, err := metrics.GetRegistry().Gather()
				convey.So(err, convey.ShouldBeNil)
				var names []string
				for _, mf := range mfs {
					names = append(names, mf.GetName())
				}
				convey.So(names, convey.ShouldContain, "plant_store_operations_total")
			})
		})
	})
}

func TestOriginChecker(t *testing.T) {
	convey.Convey("Given an origin checker for the default allow-list", t, func() {
		check := originChecker(config.New().CORSOrigins)
		request := func(origin string) *http.Request {
			r := httptest.NewRequest(http.MethodGet, "/ws", http.NoBody)
			if origin != "" {
				r.Header.Set("Origin", origin)
			}
			return r
		}

		convey.Convey("Then listed origins are accepted", func() {
			convey.So(check(request("http://localhost:5173")), convey.ShouldBeTrue)
			convey.So(check(request("http://127.0.0.1:3000")), convey.ShouldBeTrue)
		})

		convey.Convey("And foreign origins are rejected", func() {
			convey.So(check(request("http://evil.example")), convey.ShouldBeFalse)
			convey.So(check(request("http://localhost:5174")), convey.ShouldBeFalse)
		})

		convey.Convey("And requests without an Origin header are accepted", func() {
			convey.So(check(request("")), convey.ShouldBeTrue)
		})

		convey.Convey("And an empty allow-list accepts everything", func() {
			convey.So(originChecker(nil)(request("http://evil.example")), convey.ShouldBeTrue)
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it returns once the context is done", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics updater", func() {
			svc := app.New()

			convey.Convey("Then it returns once the context is done", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startServiceMetricsUpdater(ctx, svc)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing service metrics update before start", func() {
			svc := app.New()

			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(func() {
					updateServiceMetrics(svc)
				}, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationIntegration(t *testing.T) {
	convey.Convey("Given a started service behind the HTTP server", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cfg := config.New()
		svc := newService(cfg, logger.Get())
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		server := newHTTPServer(ctx, cfg, svc)
		convey.So(server.Addr, convey.ShouldEqual, ":8000")
		convey.So(server.WriteTimeout, convey.ShouldEqual, time.Duration(0))

		ts := httptest.NewServer(server.Handler)
		defer ts.Close()

		convey.Convey("When calling the API", func() {
			resp, err := http.Get(ts.URL + "/health")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then it answers from the service's store", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When fetching the API docs", func() {
			resp, err := http.Get(ts.URL + "/openapi.yaml")
			convey.So(err, convey.ShouldBeNil)
			defer resp.Body.Close()

			convey.Convey("Then the document is served", func() {
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			})
		})

		convey.Convey("When a browser connects to the live feed from a foreign origin", func() {
			wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
			_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{"http://evil.example"}})

			convey.Convey("Then the handshake is refused", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(resp, convey.ShouldNotBeNil)
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusForbidden)
			})
		})

		convey.Convey("When updating service metrics after start", func() {
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("OPTIWORK_ADDR", "")
			defer func() { _ = os.Unsetenv("OPTIWORK_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the fixtures directory is unusable", func() {
			cfg := config.New()
			cfg.FixturesDir = t.TempDir()
			svc := newService(cfg, logger.Get())

			convey.Convey("Then the service refuses to start", func() {
				convey.So(svc.Start(context.Background()), convey.ShouldNotBeNil)
			})
		})
	})
}
