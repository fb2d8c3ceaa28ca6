package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/billing"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	appfs "github.com/trezcool/darasa/fs"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	"github.com/trezcool/darasa/storage/database"
	sqlxrepos "github.com/trezcool/darasa/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	rootPath, err := os.Getwd()
	if err != nil {
		std.Fatalf("%+v", errors.Wrap(err, "getting working directory"))
	}
	conf, err := core.NewConfig(rootPath)
	if err != nil {
		std.Fatalf("%+v", errors.Wrap(err, "loading config"))
	}

	core.TemplateFS = appfs.FS

	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()
	if err = database.Ping(db); err != nil {
		logger.Fatal("pinging database", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	usrRepo := sqlxrepos.NewUserRepository(db)
	sessRepo := sqlxrepos.NewSessionRepository(db)

	usrSvc := user.NewService(usrRepo)
	sessMgr := user.NewSessionManager(sessRepo, usrRepo, conf.Server.SessionTTL)
	studentSvc := student.NewService(sqlxrepos.NewStudentRepository(db), mailSvc)
	courseSvc := course.NewService(sqlxrepos.NewCourseRepository(db))
	billingSvc := billing.NewService(sqlxrepos.NewBillingRepository(db))

	validate, translator := core.NewValidator()
	user.RegisterValidators(validate, translator)
	student.RegisterValidators(validate, translator)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:    conf.Server.Address(),
			Conf:       conf,
			Logger:     logger,
			Validate:   validate,
			Translator: translator,
			UserSvc:    usrSvc,
			SessionMgr: sessMgr,
			StudentSvc: studentSvc,
			CourseSvc:  courseSvc,
			BillingSvc: billingSvc,
		},
	)
	go app.Start()

	// sweep expired sessions in the background
	stopSweep := make(chan struct{})
	go sweepSessions(sessMgr, logger, stopSweep)

	// wait for interrupt or fatal server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("interrupt received, shutting down")
	case <-app.ShutdownSignal():
		logger.Error("fatal server error, shutting down")
	}
	close(stopSweep)

	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err = app.Stop(ctx); err != nil {
		logger.Fatal("stopping server", err)
	}
}

func sweepSessions(sessMgr *user.SessionManager, logger core.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := sessMgr.PurgeExpired(context.Background()); err != nil {
				logger.Error("purging expired sessions", err)
			}
		case <-stop:
			return
		}
	}
}
