package main

import (
	"context"
	"errors"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/devHanif-git/productivityHelper/internal/adapters/notifier"
	"github.com/devHanif-git/productivityHelper/internal/adapters/repo"
	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/config"
	"github.com/devHanif-git/productivityHelper/internal/infra/db"
	applog "github.com/devHanif-git/productivityHelper/internal/infra/log"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
	"github.com/devHanif-git/productivityHelper/internal/infra/queue"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "sender")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("sender: cannot connect to database")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)

	var jobQueue domain.NotificationQueue
	switch {
	case cfg.AMQPURL != "":
		amqpQueue, err := queue.NewAMQPNotificationQueue(cfg.AMQPURL, cfg.Queues.Notifications)
		if err != nil {
			logger.Fatal().Err(err).Msg("sender: cannot initialize rabbitmq queue")
		}
		defer amqpQueue.Close()
		jobQueue = amqpQueue
	case cfg.RedisAddr != "":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		jobQueue = queue.NewRedisNotificationQueue(client, cfg.Queues.Notifications)
	default:
		logger.Fatal().Msg("sender: no queue configured, set AMQP_URL or REDIS_ADDR")
	}

	if cfg.Telegram.Token == "" {
		logger.Fatal().Msg("sender: telegram token is not set (TG_BOT_TOKEN)")
	}
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("sender: cannot create bot")
	}

	worker := &jobWorker{
		log:      logger,
		queue:    jobQueue,
		statuses: repoAdapter,
		notifier: notifier.NewTelegram(botAPI, logger),
	}

	logger.Info().Msg("sender: starting queue processing")
	worker.Run(ctx)
	logger.Info().Msg("sender: stopped")
}

type jobWorker struct {
	log      zerolog.Logger
	queue    domain.NotificationQueue
	statuses domain.JobStatusRepo
	notifier domain.Notifier
}

const maxDeliveryAttempts = 5

type jobOutcome int

const (
	jobOutcomeCompleted jobOutcome = iota
	jobOutcomeRetry
)

func (w *jobWorker) Run(ctx context.Context) {
	for {
		job, ack, err := w.queue.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.log.Error().Err(err).Msg("sender: queue receive failed")
			time.Sleep(time.Second)
			continue
		}

		jobLog := w.log.With().
			Str("job_id", job.ID).
			Int64("chat_id", job.ChatID).
			Str("kind", string(job.Kind)).
			Logger()

		if job.ID == "" {
			jobLog.Error().Msg("sender: job without id, acking and skipping")
			if err := ack(true); err != nil {
				jobLog.Error().Err(err).Msg("sender: cannot ack job without id")
			}
			continue
		}

		delivered, attempt, err := w.statuses.EnsureNotificationJob(job.ID)
		if err != nil {
			jobLog.Error().Err(err).Msg("sender: cannot register job")
			if ackErr := ack(false); ackErr != nil {
				jobLog.Error().Err(ackErr).Msg("sender: cannot requeue job")
			}
			time.Sleep(time.Second)
			continue
		}

		jobLog = jobLog.With().Int("attempt", attempt).Logger()

		if delivered {
			jobLog.Info().Msg("sender: job already delivered, acking")
			metrics.IncDeliveryJob("duplicate")
			if err := ack(true); err != nil {
				jobLog.Error().Err(err).Msg("sender: cannot ack delivered job")
			}
			continue
		}

		outcome := w.handleJob(job, jobLog)

		if outcome == jobOutcomeRetry && attempt < maxDeliveryAttempts {
			jobLog.Warn().Msg("sender: delivery failed, will retry")
			metrics.IncDeliveryJob("retried")
			if err := ack(false); err != nil {
				jobLog.Error().Err(err).Msg("sender: cannot requeue job after failure")
			}
			continue
		}

		if outcome == jobOutcomeRetry {
			jobLog.Error().Msg("sender: attempt limit reached, dropping job")
			metrics.IncDeliveryJob("dropped")
		} else {
			metrics.IncDeliveryJob("delivered")
		}

		if err := w.statuses.MarkNotificationJobDelivered(job.ID); err != nil {
			jobLog.Error().Err(err).Msg("sender: cannot mark job delivered")
			if ackErr := ack(false); ackErr != nil {
				jobLog.Error().Err(ackErr).Msg("sender: cannot requeue job after status error")
			}
			time.Sleep(time.Second)
			continue
		}

		if err := ack(true); err != nil {
			jobLog.Error().Err(err).Msg("sender: cannot ack job")
		}
	}
}

func (w *jobWorker) handleJob(job domain.NotificationJob, jobLog zerolog.Logger) jobOutcome {
	if job.ChatID == 0 {
		jobLog.Error().Msg("sender: job without chat id, skipping")
		return jobOutcomeCompleted
	}
	if strings.TrimSpace(job.Text) == "" {
		jobLog.Error().Msg("sender: job without text, skipping")
		return jobOutcomeCompleted
	}
	if err := w.notifier.Send(job.Kind, job.ChatID, job.Text); err != nil {
		jobLog.Error().Err(err).Msg("sender: delivery failed")
		return jobOutcomeRetry
	}
	return jobOutcomeCompleted
}
