package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"hanrei-feeds/internal/app"
	"hanrei-feeds/internal/config"
	"hanrei-feeds/pkg/logger"
)

// refresher runs at most one feed refresh at a time.
type refresher struct {
	app     *app.App
	log     *logger.Logger
	mu      sync.Mutex
	running bool
	last    runStatus
}

type runStatus struct {
	Months   int       `json:"months"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished,omitempty"`
	Pages    int       `json:"pages"`
	Items    int       `json:"items"`
	Error    string    `json:"error,omitempty"`
}

func (r *refresher) start(ctx context.Context, months int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return false
	}
	r.running = true
	r.last = runStatus{Months: months, Started: time.Now()}
	go func() {
		res, err := r.app.Run(ctx, months)
		r.mu.Lock()
		defer r.mu.Unlock()
		r.running = false
		r.last.Finished = time.Now()
		if err != nil {
			r.last.Error = err.Error()
			r.log.Errorf("refresh failed: %v", err)
			return
		}
		r.last.Pages, r.last.Items = res.Stats.Pages, res.Stats.Items
	}()
	return true
}

func (r *refresher) status() (bool, runStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running, r.last
}

func main() {
	cfgFile := flag.String("config", "", "YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	l, err := logger.NewWithConfig(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer l.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ref := &refresher{app: app.New(cfg, l), log: l}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		running, last := ref.status()
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "running": running, "last": last})
	})

	// GET /feeds/japan-courts-<category>.atom
	feeds := http.StripPrefix("/feeds/", http.FileServer(http.Dir(cfg.Feed.Dir)))
	mux.HandleFunc("/feeds/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
		feeds.ServeHTTP(w, r)
	})

	// POST /crawl?months=N
	mux.HandleFunc("/crawl", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var args []string
		if m := r.URL.Query().Get("months"); m != "" {
			args = []string{m}
		}
		months, err := config.ParseBacktrack(args)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if !ref.start(ctx, months) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "refresh already running"})
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]int{"months": months})
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      logRequest(l, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	cancel()
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	l.Infof("bye")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
