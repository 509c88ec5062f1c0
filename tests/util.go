package testutil

import (
	"bytes"
	"context"
	"log"
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/backup"
	"github.com/Aastha-hs1d/JyotiPortal/core/dashboard"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
	"github.com/Aastha-hs1d/JyotiPortal/core/settings"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
	"github.com/Aastha-hs1d/JyotiPortal/core/testgen"
	broadcastsvc "github.com/Aastha-hs1d/JyotiPortal/services/broadcast"
	logsvc "github.com/Aastha-hs1d/JyotiPortal/services/logger"
	memkv "github.com/Aastha-hs1d/JyotiPortal/storage/kv/memory"
	"github.com/Aastha-hs1d/JyotiPortal/storage/snapshot"
)

// App holds every service wired over an in-memory store.
type App struct {
	Conf       *core.Config
	Store      *memkv.Store
	Logs       *bytes.Buffer
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	Broadcasts *broadcastsvc.ConsoleService

	Students      *student.Service
	Fees          *fee.Service
	Attendance    *attendance.Service
	Announcements *announcement.Service
	Notifier      *announcement.DueChecker
	Tests         *testgen.Service
	Backup        *backup.Service
	Settings      *settings.Service
	Dashboard     *dashboard.Service
}

func NewApp(t *testing.T) *App {
	t.Helper()

	conf := core.NewTestConfig()
	var logs bytes.Buffer
	logger := logsvc.NewRollbarLogger(log.New(&logs, "TEST : ", 0), conf)
	logger.Enable(false)

	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	store := memkv.Open()
	t.Cleanup(func() { _ = store.Close() })

	broadcaster := broadcastsvc.NewConsoleService(logger)
	studentSvc := student.NewService(snapshot.NewStudentRepository(store, logger), validate)
	feeSvc := fee.NewService(snapshot.NewFeeRepository(store, logger), studentSvc, validate)
	attendanceSvc := attendance.NewService(snapshot.NewAttendanceRepository(store, logger))
	announcementSvc := announcement.NewService(snapshot.NewAnnouncementRepository(store, logger), broadcaster, validate)

	return &App{
		Conf:          conf,
		Store:         store,
		Logs:          &logs,
		Logger:        logger,
		Validate:      validate,
		Translator:    translator,
		Broadcasts:    broadcaster,
		Students:      studentSvc,
		Fees:          feeSvc,
		Attendance:    attendanceSvc,
		Announcements: announcementSvc,
		Notifier:      announcement.NewDueChecker(announcementSvc, logger, conf.Scheduler.NotificationTTL),
		Tests:         testgen.NewService(snapshot.NewTestRepository(store, logger), validate),
		Backup:        backup.NewService(store, studentSvc, feeSvc, announcementSvc),
		Settings:      settings.NewService(snapshot.NewSettingsRepository(store, logger), validate),
		Dashboard:     dashboard.NewService(studentSvc, feeSvc, attendanceSvc),
	}
}

func CreateStudent(t *testing.T, svc *student.Service, name, grade, batch, monthlyFee, joinDate string) student.Student {
	t.Helper()
	std, err := svc.Create(context.Background(), student.NewStudent{
		Name:       name,
		Grade:      grade,
		Batch:      batch,
		JoinDate:   joinDate,
		MonthlyFee: core.AmountInput(monthlyFee),
		Phone:      "98" + grade + "0000000",
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateAnnouncement(t *testing.T, svc *announcement.Service, title, message, schedule string) announcement.Announcement {
	t.Helper()
	a, err := svc.Create(context.Background(), announcement.NewAnnouncement{Title: title, Message: message, Schedule: schedule})
	if err != nil {
		t.Fatalf("CreateAnnouncement() failed: %v", err)
	}
	return a
}
