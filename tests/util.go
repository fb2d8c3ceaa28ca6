package testutil

import (
	"context"
	"log"
	"net/mail"
	"os"
	"testing"
	"time"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
	appfs "github.com/trezcool/darasa/fs"
)

func init() {
	// emails rendered in tests use the real embedded templates
	core.TemplateFS = appfs.FS
}

// NewConfig returns a Config suitable for tests; no env files are read.
func NewConfig() *core.Config {
	return &core.Config{
		Env:              "test",
		TestMode:         true,
		AppName:          "Darasa",
		SecretKey:        []byte("s3cr3t-k3y"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Darasa", Address: "noreply@darasa.test"},
		Server: core.ServerConfig{
			Host:            "localhost",
			Port:            "8000",
			SessionTTL:      24 * time.Hour,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	uname, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Username:  uname,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateStudent(
	t *testing.T,
	repo student.Repository,
	name, email string,
	creatorID int,
	status string,
	enrolledAt ...time.Time,
) student.Student {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(enrolledAt) > 0 {
		tstamp = enrolledAt[0].UTC()
	}
	st := student.Student{
		Name:       name,
		Email:      email,
		Phone:      "+243000000000",
		CreatorID:  creatorID,
		Status:     status,
		EnrolledAt: tstamp,
	}
	st, err := repo.CreateStudent(context.Background(), st)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return st
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	name, driveLink string,
	creatorID int,
) course.Course {
	t.Helper()

	crs, err := repo.CreateCourse(context.Background(), course.Course{
		Name:      name,
		DriveLink: driveLink,
		CreatorID: creatorID,
	})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return crs
}

type testLogger struct {
	std *log.Logger
}

var _ core.Logger = (*testLogger)(nil)

// NewLogger returns a Logger that only writes to stderr.
func NewLogger() core.Logger {
	return &testLogger{std: log.New(os.Stderr, "TEST : ", log.LstdFlags)}
}

func (l testLogger) Enable(bool) {}

func (l testLogger) log(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l testLogger) Debug(msg string, args ...interface{}) { l.log(msg, args) }
func (l testLogger) Info(msg string, args ...interface{})  { l.log(msg, args) }
func (l testLogger) Warn(msg string, args ...interface{})  { l.log(msg, args) }
func (l testLogger) Error(msg string, args ...interface{}) { l.log(msg, args) }
func (l testLogger) Fatal(msg string, args ...interface{}) { l.log(msg, args) }
