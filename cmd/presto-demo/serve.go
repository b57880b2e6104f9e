package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/presto-ui/presto/pkg/dom"
	"github.com/presto-ui/presto/pkg/optimistic"
)

const tracerName = "presto-demo"

// serveConfig is the optional YAML config file.
type serveConfig struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"logLevel"`

	// RevertDelayMs is baked into the demo page's data-optimistic configs.
	RevertDelayMs int `yaml:"revertDelayMs"`
}

func defaultServeConfig() serveConfig {
	return serveConfig{
		Addr:          ":8420",
		LogLevel:      "info",
		RevertDelayMs: int(optimistic.DefaultDelay / time.Millisecond),
	}
}

func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c serveConfig) logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func serveCmd() *cobra.Command {
	var addr, configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo page and the websocket event endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadServeConfig(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&configPath, "config", "", "path to YAML config file")
	return cmd
}

func runServe(cfg serveConfig) error {
	logger := cfg.logger()
	slog.SetDefault(logger)
	metrics := optimistic.NewMetrics()
	page := demoPage(cfg.RevertDelayMs)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", wsHandler(page, metrics, logger))

	logger.Info("presto-demo listening", "addr", cfg.Addr)
	return http.ListenAndServe(cfg.Addr, r)
}

// eventMessage is one inbound lifecycle event from the demo page.
type eventMessage struct {
	Kind      string `json:"kind"`
	ElementID string `json:"elementID"`
	Detail    struct {
		Status     int    `json:"status"`
		StatusText string `json:"statusText"`
		Message    string `json:"message"`
	} `json:"detail"`
}

// stateMessage is the outbound document state after each transition.
type stateMessage struct {
	Kind string `json:"kind"`
	HTML string `json:"html"`
}

// wsHandler gives each connection its own document, engine and router, so
// concurrent viewers never see each other's optimistic state.
func wsHandler(page string, metrics *optimistic.Metrics, logger *slog.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	tracer := otel.Tracer(tracerName)

	return func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		doc, err := dom.Parse(page)
		if err != nil {
			logger.Error("demo page parse failed", "error", err)
			return
		}
		engine := optimistic.NewEngine(doc, optimistic.EngineConfig{
			Logger:  logger,
			Metrics: metrics,
		})
		router := optimistic.NewRouter(engine)

		for {
			var msg eventMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read failed", "error", err)
				}
				return
			}

			_, span := tracer.Start(req.Context(), "optimistic.event",
				trace.WithSpanKind(trace.SpanKindServer))
			span.SetAttributes(
				attribute.String("event.kind", msg.Kind),
				attribute.String("event.element_id", msg.ElementID),
			)

			trigger := doc.GetElementByID(msg.ElementID)
			if trigger == nil {
				logger.Warn("event for unknown element", "id", msg.ElementID)
				span.End()
				continue
			}
			router.Handle(optimistic.Kind(msg.Kind), trigger, &optimistic.Detail{
				Status:     msg.Detail.Status,
				StatusText: msg.Detail.StatusText,
				Message:    msg.Detail.Message,
			})
			span.End()

			if err := conn.WriteJSON(stateMessage{Kind: "document", HTML: doc.HTML()}); err != nil {
				logger.Warn("websocket write failed", "error", err)
				return
			}
		}
	}
}

// demoPage builds the markup the demo serves. Every control carries a
// data-optimistic config exercising a different part of the engine.
func demoPage(delayMs int) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Presto optimistic demo</title></head>
<body>
  <div id="card-loading" hidden><div class="card skeleton">Loading ${this.dataset.label}...</div></div>
  <div id="errtpl" hidden><p class="alert">Request failed (${status} ${statusText})</p></div>

  <form id="compose" class="panel">
    <input type="text" name="title" value="">
    <button id="post-btn" type="submit"
      data-optimistic='{"target":"closest form find .status","values":{"textContent":"posting..."},"errorMessage":"Could not post: ${statusText}","delay":%d}'>Post</button>
    <span class="status">idle</span>
  </form>

  <div class="panel">
    <button id="like-btn" data-optimistic="true">Like</button>
    <button id="feed-btn" data-label="the feed"
      data-optimistic='{"target":"next .feed","template":"#card-loading","swap":"prepend","errorTemplate":"#errtpl","errorMode":"append","delay":%d}'>Refresh</button>
    <div class="feed"><div class="card">first post</div></div>
  </div>
</body>
</html>`, delayMs, delayMs)
}
