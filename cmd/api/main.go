package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/devHanif-git/productivityHelper/internal/adapters/repo"
	"github.com/devHanif-git/productivityHelper/internal/domain"
	"github.com/devHanif-git/productivityHelper/internal/infra/clock"
	"github.com/devHanif-git/productivityHelper/internal/infra/config"
	"github.com/devHanif-git/productivityHelper/internal/infra/db"
	httpinfra "github.com/devHanif-git/productivityHelper/internal/infra/http"
	applog "github.com/devHanif-git/productivityHelper/internal/infra/log"
	"github.com/devHanif-git/productivityHelper/internal/infra/metrics"
	"github.com/devHanif-git/productivityHelper/internal/usecase/notify"
	"github.com/devHanif-git/productivityHelper/internal/usecase/semester"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv, "api")

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: cannot connect to database")
	}
	defer pool.Close()

	repoAdapter := repo.NewPostgres(pool)

	engineClock, err := clock.NewSystem(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: cannot load timezone")
	}

	calendar := semester.NewService(repoAdapter, repoAdapter, engineClock)

	srv := httpinfra.NewServer(logger)

	srv.Router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpinfra.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	srv.Router.Get("/api/v1/week", func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(w, r)
		if !ok {
			return
		}
		today, ok := dateParam(w, r, engineClock.Today())
		if !ok {
			return
		}
		current, next, err := calendar.WeeksOn(r.Context(), chatID, today)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				httpinfra.WriteError(w, http.StatusNotFound, "user_not_found", "chat is not registered")
			case errors.Is(err, domain.ErrSemesterStartUnset):
				httpinfra.WriteError(w, http.StatusConflict, "semester_start_unset", "semester start date is not configured")
			default:
				logger.Error().Err(err).Int64("chat_id", chatID).Msg("api: week lookup failed")
				httpinfra.WriteError(w, http.StatusInternalServerError, "internal_error", "cannot compute week")
			}
			return
		}
		httpinfra.WriteJSON(w, http.StatusOK, weekResponse{
			Date:    today.Format("2006-01-02"),
			Current: weekPayload(current),
			Next:    weekPayload(next),
		})
	})

	srv.Router.Get("/api/v1/offdays/next", func(w http.ResponseWriter, r *http.Request) {
		today, ok := dateParam(w, r, engineClock.Today())
		if !ok {
			return
		}
		offDay, found, err := calendar.UpcomingOffDayFrom(r.Context(), today, cfg.Reminders.OffDayHorizonDays)
		if err != nil {
			logger.Error().Err(err).Msg("api: off-day lookup failed")
			httpinfra.WriteError(w, http.StatusInternalServerError, "internal_error", "cannot find off days")
			return
		}
		if !found {
			httpinfra.WriteJSON(w, http.StatusOK, offDayResponse{Found: false})
			return
		}
		httpinfra.WriteJSON(w, http.StatusOK, offDayResponse{
			Found:     true,
			Date:      offDay.Date.Format("2006-01-02"),
			DaysUntil: semester.DaysUntil(offDay.Date, today),
			Event: &eventInfo{
				Type:   string(offDay.Event.EventType),
				Name:   offDay.Event.Name,
				NameEn: offDay.Event.NameEn,
			},
		})
	})

	srv.Router.Get("/api/v1/briefing/preview", func(w http.ResponseWriter, r *http.Request) {
		chatID, ok := chatIDParam(w, r)
		if !ok {
			return
		}
		tomorrow := semester.DateOnly(engineClock.Today()).AddDate(0, 0, 1)
		day, ok := dateParam(w, r, tomorrow)
		if !ok {
			return
		}
		user, err := repoAdapter.GetByChatID(chatID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				httpinfra.WriteError(w, http.StatusNotFound, "user_not_found", "chat is not registered")
				return
			}
			logger.Error().Err(err).Int64("chat_id", chatID).Msg("api: user lookup failed")
			httpinfra.WriteError(w, http.StatusInternalServerError, "internal_error", "cannot load user")
			return
		}
		classDay, event, slots, err := calendar.OutlookFor(r.Context(), day)
		if err != nil {
			logger.Error().Err(err).Msg("api: briefing preview failed")
			httpinfra.WriteError(w, http.StatusInternalServerError, "internal_error", "cannot build briefing")
			return
		}
		resp := previewResponse{
			Date:     day.Format("2006-01-02"),
			ClassDay: classDay,
		}
		switch {
		case classDay:
			resp.Message = notify.ClassBriefingMessage(day, slots, user.Language)
		case event != nil:
			resp.Message = notify.OffdayAlertMessage(day, *event, slots, user.Language)
			resp.Event = &eventInfo{
				Type:   string(event.EventType),
				Name:   event.Name,
				NameEn: event.NameEn,
			}
		}
		httpinfra.WriteJSON(w, http.StatusOK, resp)
	})

	srv.Router.Get("/api/v1/items/pending", func(w http.ResponseWriter, r *http.Request) {
		counts, err := repoAdapter.CountPending()
		if err != nil {
			logger.Error().Err(err).Msg("api: pending counts failed")
			httpinfra.WriteError(w, http.StatusInternalServerError, "internal_error", "cannot count pending items")
			return
		}
		httpinfra.WriteJSON(w, http.StatusOK, counts)
	})

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: graceful shutdown failed")
	}
}

type weekInfo struct {
	Week  int    `json:"week,omitempty"`
	Label string `json:"label"`
}

func weekPayload(res semester.WeekResult) weekInfo {
	return weekInfo{Week: res.Number, Label: res.String()}
}

type weekResponse struct {
	Date    string   `json:"date"`
	Current weekInfo `json:"current"`
	Next    weekInfo `json:"next"`
}

type eventInfo struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	NameEn string `json:"name_en,omitempty"`
}

type offDayResponse struct {
	Found     bool       `json:"found"`
	Date      string     `json:"date,omitempty"`
	DaysUntil int        `json:"days_until,omitempty"`
	Event     *eventInfo `json:"event,omitempty"`
}

type previewResponse struct {
	Date     string     `json:"date"`
	ClassDay bool       `json:"class_day"`
	Message  string     `json:"message,omitempty"`
	Event    *eventInfo `json:"event,omitempty"`
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.URL.Query().Get("chat_id")
	if raw == "" {
		httpinfra.WriteError(w, http.StatusBadRequest, "invalid_request", "chat_id is required")
		return 0, false
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpinfra.WriteError(w, http.StatusBadRequest, "invalid_request", "chat_id must be an integer")
		return 0, false
	}
	return chatID, true
}

func dateParam(w http.ResponseWriter, r *http.Request, fallback time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return fallback, true
	}
	day, ok := semester.ParseDate(raw)
	if !ok {
		httpinfra.WriteError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
