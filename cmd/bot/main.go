package main

import (
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/infun-course/tutorbot/internal/bot"
	"github.com/infun-course/tutorbot/internal/config"
	"github.com/infun-course/tutorbot/internal/services"
	"github.com/infun-course/tutorbot/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warnf("unknown log level %q, keeping %s", cfg.LogLevel, log.GetLevel())
	}

	var (
		surveyStore     services.SurveyStore
		feedbackStore   services.FeedbackStore
		attendanceStore services.AttendanceStore
	)
	if cfg.DBPath != "" {
		db, err := sql.Open("sqlite3", cfg.DBPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		if err := store.RunMigrations(db, cfg.MigrationsDir); err != nil {
			log.Fatalf("run migrations: %v", err)
		}
		st, err := store.NewSQLite(db)
		if err != nil {
			log.Fatalf("init sqlite store: %v", err)
		}
		surveyStore, feedbackStore, attendanceStore = st, st, st
		log.Infof("using sqlite store at %s", cfg.DBPath)
	} else {
		st := store.NewMemory()
		surveyStore, feedbackStore, attendanceStore = st, st, st
		log.Info("using in-memory store, state is lost on restart")
	}

	b, err := bot.New(cfg,
		services.NewAttendanceService(attendanceStore),
		services.NewSurveyService(surveyStore),
		services.NewFeedbackService(feedbackStore),
	)
	if err != nil {
		log.Fatalf("init bot: %v", err)
	}
	if err := b.Start(); err != nil {
		log.Fatalf("start bot: %v", err)
	}
	log.Info("bot is running, press ctrl-c to exit")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	log.Info("shutting down")
	if err := b.Stop(); err != nil {
		log.Errorf("close session: %v", err)
	}
}
