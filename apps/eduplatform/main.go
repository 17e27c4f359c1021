package main

import (
	"log"
	"os"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/eduplatform/core"
	"github.com/trezcool/eduplatform/core/school"
	"github.com/trezcool/eduplatform/core/user"
	"github.com/trezcool/eduplatform/services/export"
	"github.com/trezcool/eduplatform/services/logger"
	"github.com/trezcool/eduplatform/storage/database/inmem"
)

func main() {
	conf, err := core.LoadConfig()
	if err != nil {
		log.Fatalf("%+v", err)
	}

	std := log.New(os.Stderr, conf.AppName+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.New(std, conf)
	closeLogger := func() {
		if rl, ok := logger.(*logsvc.RollbarLogger); ok {
			rl.Close()
		}
	}

	// set up DB
	db, err := inmemdb.Open()
	errAndDie(logger, err)
	svc := school.NewService(school.Repositories{
		Users:         inmemdb.NewUserRepository(db),
		Coursework:    inmemdb.NewCourseworkRepository(db),
		Schedules:     inmemdb.NewScheduleRepository(db),
		Notifications: inmemdb.NewNotificationRepository(db),
	})

	admin, err := bootstrapAdmin(svc.Users, conf.Admin)
	errAndDie(logger, err)
	logger.Info("bootstrap admin ready", map[string]interface{}{"id": admin.ID, "env": conf.Env})

	// start CLI
	terminal := term.IsTerminal(int(syscall.Stdin))
	cli := newCommandLine(svc, exportsvc.NewExporter(conf, logger), logger, os.Stdin, os.Stdout, terminal)
	code := cli.serve()
	closeLogger()
	os.Exit(code)
}

// bootstrapAdmin registers the configured admin account so the directory is never empty.
func bootstrapAdmin(svc *user.Service, conf core.AdminConfig) (user.Account, error) {
	admin, err := svc.Register(user.NewUser{
		Name:     conf.Name,
		Email:    conf.Email,
		Password: conf.Password,
		Role:     user.RoleAdmin,
	})
	if err != nil {
		return user.Account{}, errors.Wrap(err, "registering bootstrap admin")
	}
	return admin, nil
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
