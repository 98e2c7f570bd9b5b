package main

import (
	"context"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/devHanif-git/productivityHelper/internal/adapters/notifier"
	"github.com/devHanif-git/productivityHelper/internal/adapters/repo"
	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/cache"
	"github.com/devHanif-git/productivityHelper/internal/infra/clock"
	"github.com/devHanif-git/productivityHelper/internal/infra/config"
	"github.com/devHanif-git/productivityHelper/internal/infra/db"
	applog "github.com/devHanif-git/productivityHelper/internal/infra/log"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
	"github.com/devHanif-git/productivityHelper/internal/infra/queue"
	"github.com/devHanif-git/productivityHelper/internal/usecase/notify"
	"github.com/devHanif-git/productivityHelper/internal/usecase/reminder"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "scheduler")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: cannot connect to database")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)

	engineClock, err := clock.NewSystem(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler: cannot load timezone")
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}

	var guard domain.OnceGuard
	if redisClient != nil {
		guard = cache.NewRedisGuard(redisClient)
	} else {
		logger.Warn().Msg("scheduler: redis address is not set, daily jobs run unguarded")
	}

	var messenger domain.Notifier
	switch cfg.DeliveryMode {
	case "direct":
		if cfg.Telegram.Token == "" {
			logger.Fatal().Msg("scheduler: telegram token is not set (TG_BOT_TOKEN)")
		}
		botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			logger.Fatal().Err(err).Msg("scheduler: cannot create bot")
		}
		messenger = notifier.NewTelegram(botAPI, logger)
	case "queue":
		switch {
		case cfg.AMQPURL != "":
			jobQueue, err := queue.NewAMQPNotificationQueue(cfg.AMQPURL, cfg.Queues.Notifications)
			if err != nil {
				logger.Fatal().Err(err).Msg("scheduler: cannot initialize rabbitmq queue")
			}
			defer jobQueue.Close()
			messenger = notifier.NewQueue(jobQueue, engineClock)
		case redisClient != nil:
			messenger = notifier.NewQueue(queue.NewRedisNotificationQueue(redisClient, cfg.Queues.Notifications), engineClock)
		default:
			logger.Fatal().Msg("scheduler: queue delivery needs AMQP_URL or REDIS_ADDR")
		}
	default:
		logger.Fatal().Str("mode", cfg.DeliveryMode).Msg("scheduler: unknown delivery mode")
	}

	dispatcher := notify.NewDispatcher(repoAdapter, messenger, engineClock, logger)

	scanners := []reminder.ProgressScanner{
		reminder.NewAssignmentScanner(repoAdapter, engineClock.Location(), logger),
		reminder.NewTaskScanner(repoAdapter, engineClock.Location(), logger),
		reminder.NewTodoScanner(repoAdapter, engineClock.Location(), logger),
	}

	scheduler := notify.NewScheduler(repoAdapter, repoAdapter, dispatcher, scanners, guard, engineClock, logger)
	scheduler.SetScanInterval(cfg.Reminders.ScanInterval)

	if err := scheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("scheduler: cannot start")
	}

	<-ctx.Done()
	scheduler.Stop()
}
