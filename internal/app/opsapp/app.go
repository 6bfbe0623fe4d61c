package opsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/config"
	"github.com/mahiofficial1332/Em-like-bot/internal/domain/rules"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
)

// StateSource is the read-only slice of bot state the status endpoint
// reports on.
type StateSource interface {
	AutoTargets() []jsonstore.AutoTarget
	Report(date string) []jsonstore.ReportEntry
}

// App is the small operational HTTP surface next to the bot: liveness and a
// status snapshot. It carries no admin actions; those stay in chat.
type App struct {
	cfg       config.OpsConfig
	logger    *zap.Logger
	state     StateSource
	startedAt time.Time
	now       func() time.Time
}

func New(cfg config.OpsConfig, state StateSource, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		cfg:       cfg,
		logger:    logger,
		state:     state,
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// Run serves until the context is cancelled. With no address configured the
// ops surface is off and Run returns immediately.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.Addr == "" {
		a.logger.Info("ops server disabled")
		return nil
	}

	srv := &http.Server{
		Addr:         a.cfg.Addr,
		Handler:      a.routes(),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("ops server listening", zap.String("addr", a.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", a.handleHealthz)
	r.Get("/status", a.handleStatus)
	return r
}

func (a *App) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	UptimeSeconds int64 `json:"uptime_seconds"`
	AutoTargets   int   `json:"auto_targets"`
	TodayReport   struct {
		Date       string `json:"date"`
		Processed  int    `json:"processed"`
		Succeeded  int    `json:"succeeded"`
		LikesGiven int    `json:"likes_given"`
	} `json:"today_report"`
}

func (a *App) handleStatus(w http.ResponseWriter, _ *http.Request) {
	now := a.now()

	resp := statusResponse{
		UptimeSeconds: int64(now.Sub(a.startedAt).Seconds()),
		AutoTargets:   len(a.state.AutoTargets()),
	}

	today := rules.DayKey(now)
	resp.TodayReport.Date = today
	for _, entry := range a.state.Report(today) {
		resp.TodayReport.Processed++
		if entry.Status == jsonstore.ReportStatusSuccess {
			resp.TodayReport.Succeeded++
			resp.TodayReport.LikesGiven += entry.Likes
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
