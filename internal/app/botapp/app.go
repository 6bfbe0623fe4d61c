package botapp

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mahiofficial1332/Em-like-bot/internal/config"
	tginfra "github.com/mahiofficial1332/Em-like-bot/internal/infra/telegram"
	"github.com/mahiofficial1332/Em-like-bot/internal/jobs/autolike"
	"github.com/mahiofficial1332/Em-like-bot/internal/repo/jsonstore"
	"github.com/mahiofficial1332/Em-like-bot/internal/services/likeapi"
	quotasvc "github.com/mahiofficial1332/Em-like-bot/internal/services/quota"
	ratesvc "github.com/mahiofficial1332/Em-like-bot/internal/services/rate"
	"github.com/mahiofficial1332/Em-like-bot/internal/ui"
)

// messenger is the outgoing side of the chat platform.
type messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendMessage(ctx context.Context, chatID int64, text string) (int, error)
	EditMessage(ctx context.Context, chatID int64, messageID int, text string) error
	MemberRoles(ctx context.Context, chatID, userID int64) ([]string, error)
}

type likeClient interface {
	RequestLike(ctx context.Context, uid, region string) (likeapi.Outcome, error)
	Ping(ctx context.Context) bool
}

type App struct {
	cfg      config.Config
	logger   *zap.Logger
	bot      *tginfra.Bot
	tg       messenger
	store    *jsonstore.Store
	api      likeClient
	quota    *quotasvc.Service
	cooldown *ratesvc.Limiter
	renderer *ui.Renderer
	job      *autolike.Job
	now      func() time.Time
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		return nil, errors.New("logger is nil")
	}

	store := jsonstore.New(cfg.Storage.Path)
	if err := store.Load(); err != nil {
		// Start with an empty state rather than refusing to boot.
		logger.Warn("state load failed, starting empty", zap.Error(err))
	}

	apiClient, err := likeapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)
	if err != nil {
		return nil, err
	}

	bot, err := tginfra.NewBot(cfg.Bot.Token)
	if err != nil {
		return nil, err
	}

	renderer := ui.NewRenderer(cfg.Display.Timezone)

	app := &App{
		cfg:      cfg,
		logger:   logger,
		bot:      bot,
		tg:       bot,
		store:    store,
		api:      apiClient,
		quota:    quotasvc.NewService(store, cfg.Limits.DefaultDaily),
		cooldown: ratesvc.NewLimiter(ratesvc.NewMemoryStore(), 1, cfg.Bot.Cooldown),
		renderer: renderer,
		now:      time.Now,
	}

	job := autolike.NewJob(apiClient, store, app, cfg.AutoLike.Pacing, logger)
	job.SetTimestamper(renderer.Timestamp)
	app.job = job

	return app, nil
}

// Store exposes the live state handle so sibling surfaces (the ops server)
// can read the same data the bot mutates.
func (a *App) Store() *jsonstore.Store {
	return a.store
}

func (a *App) Run(ctx context.Context) error {
	a.logger.Info("like bot started", zap.String("bot", a.bot.Username()))

	if a.api.Ping(ctx) {
		a.logger.Info("like api probe succeeded")
	} else {
		a.logger.Warn("like api probe failed, continuing anyway")
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- a.runAutoLikeLoop(ctx)
	}()
	go func() {
		errCh <- a.bot.Listen(ctx, tginfra.Handlers{OnCommand: a.handleCommand})
	}()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("like bot stopped")
			return nil
		case err := <-errCh:
			if err == nil || errors.Is(err, context.Canceled) {
				continue
			}
			return err
		}
	}
}

// runAutoLikeLoop drives the hourly worklist. The first run happens after a
// full interval, not at startup: an eager run on every restart would
// double-spend upstream calls.
func (a *App) runAutoLikeLoop(ctx context.Context) error {
	interval := a.cfg.AutoLike.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.job.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Error("auto-like run failed", zap.Error(err))
			}
		}
	}
}

// DispatchReport sends the day's report to every configured destination.
// One failed delivery is logged and does not block the rest.
func (a *App) DispatchReport(ctx context.Context, date string, entries []jsonstore.ReportEntry) {
	text := a.renderer.AutoReport(date, entries, a.now())

	for _, chatKey := range a.store.ReportChannels() {
		chatID, err := strconv.ParseInt(chatKey, 10, 64)
		if err != nil {
			a.logger.Warn("bad report channel id", zap.String("chat", chatKey))
			continue
		}
		if err := a.tg.SendText(ctx, chatID, text); err != nil {
			a.logger.Warn("report delivery failed",
				zap.Int64("chat_id", chatID), zap.Error(err))
		}
	}
}

// persist flushes the store, logging instead of failing: in-memory state
// stays authoritative until the next successful save.
func (a *App) persist() {
	if err := a.store.Save(); err != nil {
		a.logger.Error("persist state", zap.Error(err))
	}
}

func (a *App) send(ctx context.Context, chatID int64, text string) {
	if err := a.tg.SendText(ctx, chatID, text); err != nil {
		a.logger.Warn("send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
