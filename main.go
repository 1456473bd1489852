//
// newsdaily
// =========
// HTTP JSON service for a categorized news feed: articles are grouped
// into fixed categories, a featured "Top News" slot is promoted to the
// hero position, viewers react with like/dislike, and authors manage
// their own posts.
//
// Boot the server:
// ----------------
// $ go run main.go
//
// Client requests:
// ----------------
// $ curl http://localhost:3333/feed
// {"hero":{...},"categories":[...],"empty":false}
//
// $ curl http://localhost:3333/articles?category=Sports+News
// [{"id":"...","title":"..."}]
//
// $ curl -X POST -d '{"userId":"u1"}' http://localhost:3333/session
// {"token":"...","userId":"u1"}
//
// $ curl -X POST -H "Authorization: Bearer $TOKEN" \
//     -d '{"title":"Hi","author":"Peter","description":"sup","category":"Sports News"}' \
//     http://localhost:3333/articles
//
// $ curl -X POST -H "Authorization: Bearer $TOKEN" http://localhost:3333/articles/$ID/like
//
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/docgen"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"

	"github.com/newsdaily/newsdaily/internal/article"
	"github.com/newsdaily/newsdaily/internal/config"
	"github.com/newsdaily/newsdaily/internal/feed"
	"github.com/newsdaily/newsdaily/internal/images"
	"github.com/newsdaily/newsdaily/internal/reaction"
	"github.com/newsdaily/newsdaily/internal/session"
	"github.com/newsdaily/newsdaily/internal/store"
)

const ServiceName = "newsdaily"

type CtxKey int8

const (
	CtxKeyLogger CtxKey = iota
)

type App struct {
	sugarLogger *zap.SugaredLogger
	config      config.Config
}

// nolint
func main() {
	// nolint
	var (
		routes   = flag.Bool("routes", config.GetEnvBool(ServiceName+"_routes", false), "Generate router documentation")
		cfgPath  = flag.String("config", config.GetEnv(ServiceName+"_CONFIG", ""), "path to YAML config file")
		addr     = flag.String("addr", config.GetEnv(ServiceName+"_ADDR", ""), "application port")
		diagAddr = flag.String("diag_addr", config.GetEnv(ServiceName+"_DIAG_ADDR", ""), "diag port")
		dbPath   = flag.String("db", config.GetEnv(ServiceName+"_DB", ""), "sqlite database path (empty: in-memory store)")
	)

	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync() // flushes buffer, if any
	sugar := logger.Sugar()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		sugar.Fatalw("config", "error", err)
	}

	// Flags/env win over the file.
	if *addr != "" {
		cfg.Addr = *addr
	}

	if *diagAddr != "" {
		cfg.DiagAddr = *diagAddr
	}

	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	a := App{
		sugarLogger: sugar,
		config:      cfg,
	}

	promConfig := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(promConfig.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(promConfig, c)
	if err != nil {
		a.sugarLogger.Panicf("failed to initialize prometheus exporter %v", err)
	}
	global.SetMeterProvider(exporter.MeterProvider())

	meter := global.Meter(ServiceName)

	completedCount := metric.Must(meter).NewInt64Counter(
		"http/server/completed_count",
		metric.WithDescription("Count of completed requests, by HTTP method and response status"),
	).Bind(attribute.String("status", "200"))
	defer completedCount.Unbind()

	feedLoads := metric.Must(meter).NewInt64Counter(
		"feed/load_count",
		metric.WithDescription("Count of aggregated feed loads"),
	).Bind(attribute.String("resource", "feed"))
	defer feedLoads.Unbind()

	reactionCount := metric.Must(meter).NewInt64Counter(
		"reaction/count",
		metric.WithDescription("Count of like/dislike toggles"),
	).Bind(attribute.String("resource", "reaction"))
	defer reactionCount.Unbind()

	var st store.Store
	if cfg.DBPath != "" {
		st, err = store.NewSQLite(cfg.DBPath)
		if err != nil {
			sugar.Fatalw("open store", "error", err)
		}
	} else {
		st = store.NewMemory()
	}
	defer st.Close()

	host, err := images.NewDirHost(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		sugar.Fatalw("media dir", "error", err)
	}

	sessions := session.NewTokenProvider()
	toggle := reaction.NewToggle(st, sugar)

	// Reaction state is session-scoped: drop it when the session ends.
	unsubscribe := sessions.Observe(func(token, userID string, signedIn bool) {
		if !signedIn {
			toggle.Forget(token)
		}
	})
	defer unsubscribe()

	mode := feed.FeaturedList
	if cfg.FeaturedMode == "random" {
		mode = feed.FeaturedRandom
	}

	rs := &article.Resource{
		Store:  st,
		Feed:   feed.New(st, mode, sugar),
		Toggle: toggle,
		Images: host,
		Log:    sugar,
	}

	r := chi.NewRouter()

	diagRouter := chi.NewRouter()
	diagRouter.Get("/metrics", exporter.ServeHTTP)

	r.Use(middleware.RequestID)
	r.Use(a.Logger)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(session.Middleware(sessions))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("root."))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		logger := r.Context().Value(CtxKeyLogger).(*zap.SugaredLogger)
		logger.Infow("ping with middle")
		completedCount.Add(r.Context(), 1)
		_, err := w.Write([]byte("pong"))
		if err != nil {
			sugar.Errorw(err.Error())
		}
	})

	r.With(counted(feedLoads)).Get("/feed", rs.GetFeed)
	r.Mount("/articles", withCountedReactions(rs, reactionCount))
	r.Mount("/session", (&session.Resource{Provider: sessions}).Routes())

	FileServer(r, cfg.MediaBaseURL, http.Dir(cfg.MediaDir))

	// Passing -routes to the program will generate docs for the above
	// router definition.
	if *routes {
		// nolint
		fmt.Println(docgen.MarkdownRoutesDoc(r, docgen.MarkdownOpts{
			ProjectPath: "github.com/newsdaily/newsdaily",
			Intro:       "Welcome to the newsdaily generated docs.",
		}))

		return
	}

	go func() {
		err = http.ListenAndServe(cfg.Addr, r)
		if err != nil {
			a.sugarLogger.Errorw(err.Error())
		}
	}()

	err = http.ListenAndServe(cfg.DiagAddr, diagRouter)
	if err != nil {
		a.sugarLogger.Errorw(err.Error())
	}
}

// counted increments the bound counter once per completed request.
func counted(counter metric.BoundInt64Counter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			counter.Add(r.Context(), 1)
		})
	}
}

// withCountedReactions mounts the articles routes with the reaction
// endpoints instrumented.
func withCountedReactions(rs *article.Resource, counter metric.BoundInt64Counter) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)

			if req.Method == http.MethodPost &&
				(strings.HasSuffix(req.URL.Path, "/like") || strings.HasSuffix(req.URL.Path, "/dislike")) {
				counter.Add(req.Context(), 1)
			}
		})
	})
	r.Mount("/", rs.Routes())

	return r
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func (a *App) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), CtxKeyLogger, a.sugarLogger)))
	})
}
