package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/bitvavo/bootcamp-bot/internal/bootcamp"
	"github.com/bitvavo/bootcamp-bot/internal/config"
	"github.com/bitvavo/bootcamp-bot/internal/domain"
	"github.com/bitvavo/bootcamp-bot/internal/httpapi"
	"github.com/bitvavo/bootcamp-bot/internal/metrics"
	"github.com/bitvavo/bootcamp-bot/internal/scheduler"
	"github.com/bitvavo/bootcamp-bot/internal/store"
	"github.com/bitvavo/bootcamp-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	loc     *time.Location
	bot     *tgbotapi.BotAPI
	metrics *metrics.Metrics
	httpSrv *http.Server
	repo    store.Repo
	svc     *bootcamp.Service
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log, loc: loc, metrics: metrics.New()}

	if !cfg.HTTPOnly {
		bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			return nil, err
		}
		bot.Debug = false
		a.bot = bot
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting bootcamp-bot",
		zap.String("store", a.cfg.StoreDriver),
		zap.String("http", a.cfg.HTTPAddr),
		zap.Bool("http_only", a.cfg.HTTPOnly),
		zap.String("tz", a.loc.String()),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := store.Open(ctx, a.cfg.StoreDriver, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open store failed", zap.Error(err))
		return err
	}
	a.repo = repo
	defer func() {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("store close error", zap.Error(err))
		}
	}()
	a.log.Info("store ready", zap.String("driver", a.cfg.StoreDriver))

	if err := a.wire(); err != nil {
		return err
	}

	if !a.cfg.EnableSchedules {
		if n, err := a.svc.PurgeSchedules(ctx); err != nil {
			a.log.Warn("purge schedules failed", zap.Error(err), zap.Int("purged", n))
		}
	}
	if err := a.svc.Start(ctx); err != nil {
		// Failed slots are retried on the next tick.
		a.log.Warn("initial reconcile incomplete", zap.Error(err))
	}

	go a.sched.Run(ctx)
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	var updCh tgbotapi.UpdatesChannel
	if a.bot != nil {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updCh = a.bot.GetUpdatesChan(u)
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			if a.bot != nil {
				a.bot.StopReceivingUpdates()
			}

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()

			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

// wire builds the engine and its transports on top of the opened store.
func (a *App) wire() error {
	opts := bootcamp.Options{
		Sessions:     a.repo,
		Schedules:    a.repo,
		Logger:       a.log.Named("bootcamp"),
		Metrics:      a.metrics,
		Location:     a.loc,
		SessionLimit: a.cfg.SessionLimit,
		Horizon:      a.cfg.Horizon,
	}

	var names *telegram.Names
	if a.bot != nil {
		names = telegram.NewNames()
		loc := a.loc
		presenter := telegram.NewPresenter(a.bot, a.cfg.ChatID, names, func() domain.Date {
			return domain.Today(time.Now(), loc)
		})
		opts.Presenter = presenter
		opts.Boards = presenter
	}

	svc, err := bootcamp.New(opts)
	if err != nil {
		return err
	}
	a.svc = svc

	if a.bot != nil {
		a.router = telegram.NewRouter(a.bot, a.log.Named("telegram"), svc, names, a.cfg.EnableSchedules)
	}

	sched, err := scheduler.New(svc, a.log.Named("scheduler"), a.loc, a.cfg.TickSpec, a.cfg.LeaderboardSpec)
	if err != nil {
		return err
	}
	a.sched = sched

	a.httpSrv = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(svc, a.log, a.metrics),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	return nil
}
