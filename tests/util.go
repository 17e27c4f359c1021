package testutil

import (
	"testing"
	"time"

	"github.com/trezcool/eduplatform/core/school"
	"github.com/trezcool/eduplatform/core/user"
	"github.com/trezcool/eduplatform/storage/database/inmem"
)

// Env is a fully wired school backed by a fresh in-memory database.
type Env struct {
	DB      *inmemdb.DB
	Repos   school.Repositories
	School  *school.Service
	UserSvc *user.Service
}

func Setup(t *testing.T) Env {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	repos := school.Repositories{
		Users:         inmemdb.NewUserRepository(db),
		Coursework:    inmemdb.NewCourseworkRepository(db),
		Schedules:     inmemdb.NewScheduleRepository(db),
		Notifications: inmemdb.NewNotificationRepository(db),
	}
	svc := school.NewService(repos)
	return Env{DB: db, Repos: repos, School: svc, UserSvc: svc.Users}
}

// CreateUser stores an account straight into repo, bypassing validation.
func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, pwd string,
	role user.Role,
	createdAt ...time.Time,
) user.Account {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.Account{
		Name:      name,
		Email:     email,
		Role:      role,
		Profile:   user.NewProfile(role),
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// Register registers an account through the user service and fails the test on error.
func Register(t *testing.T, svc *user.Service, nu user.NewUser) user.Account {
	usr, err := svc.Register(nu)
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", nu.Email, err)
	}
	return usr
}
