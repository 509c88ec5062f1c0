package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/Aastha-hs1d/JyotiPortal/apps/api/echo"
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
	"github.com/Aastha-hs1d/JyotiPortal/storage/kv"
	"github.com/Aastha-hs1d/JyotiPortal/storage/snapshot"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

type serverParams struct {
	dig.In

	Conf            *core.Config
	Logger          core.Logger
	Validate        *validator.Validate
	Translator      ut.Translator
	StudentSvc      *student.Service
	FeeSvc          *fee.Service
	AttendanceSvc   *attendance.Service
	AnnouncementSvc *announcement.Service
	Notifier        *announcement.DueChecker
	TestSvc         *testgen.Service
	BackupSvc       *backup.Service
	SettingsSvc     *settings.Service
	DashboardSvc    *dashboard.Service
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")
	return logger
}

func newStore(conf *core.Config, loggerParam StoreLoggerParam) core.KVStore {
	store, err := kv.Open(context.Background(), conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	return store
}

func newStudentService(store core.KVStore, loggerParam StoreLoggerParam, validate *validator.Validate) *student.Service {
	return student.NewService(snapshot.NewStudentRepository(store, loggerParam.Logger), validate)
}

func newFeeService(store core.KVStore, loggerParam StoreLoggerParam, students *student.Service, validate *validator.Validate) *fee.Service {
	return fee.NewService(snapshot.NewFeeRepository(store, loggerParam.Logger), students, validate)
}

func newAttendanceService(store core.KVStore, loggerParam StoreLoggerParam) *attendance.Service {
	return attendance.NewService(snapshot.NewAttendanceRepository(store, loggerParam.Logger))
}

func newAnnouncementService(
	store core.KVStore,
	loggerParam StoreLoggerParam,
	broadcaster announcement.Broadcaster,
	validate *validator.Validate,
) *announcement.Service {
	return announcement.NewService(snapshot.NewAnnouncementRepository(store, loggerParam.Logger), broadcaster, validate)
}

func newTestService(store core.KVStore, loggerParam StoreLoggerParam, validate *validator.Validate) *testgen.Service {
	return testgen.NewService(snapshot.NewTestRepository(store, loggerParam.Logger), validate)
}

func newSettingsService(store core.KVStore, loggerParam StoreLoggerParam, validate *validator.Validate) *settings.Service {
	return settings.NewService(snapshot.NewSettingsRepository(store, loggerParam.Logger), validate)
}

func newBackupService(store core.KVStore, students *student.Service, fees *fee.Service, announcements *announcement.Service) *backup.Service {
	return backup.NewService(store, students, fees, announcements)
}

func newDashboardService(students *student.Service, fees *fee.Service, att *attendance.Service) *dashboard.Service {
	return dashboard.NewService(students, fees, att)
}

func newBroadcaster(conf *core.Config, logger core.Logger) (announcement.Broadcaster, error) {
	return broadcastsvc.New(conf, logger)
}

func newDueChecker(conf *core.Config, svc *announcement.Service, logger core.Logger) *announcement.DueChecker {
	return announcement.NewDueChecker(svc, logger, conf.Scheduler.NotificationTTL)
}

func newRunner(conf *core.Config, logger core.Logger) *announcement.Runner {
	return announcement.NewRunner(logger, conf.Scheduler.CheckInterval)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Validate:        p.Validate,
		Translator:      p.Translator,
		StudentSvc:      p.StudentSvc,
		FeeSvc:          p.FeeSvc,
		AttendanceSvc:   p.AttendanceSvc,
		AnnouncementSvc: p.AnnouncementSvc,
		Notifier:        p.Notifier,
		TestSvc:         p.TestSvc,
		BackupSvc:       p.BackupSvc,
		SettingsSvc:     p.SettingsSvc,
		DashboardSvc:    p.DashboardSvc,
	})
}

// New returns a new dependency injection dig.Container
func New(newConfig func() *core.Config) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newStore))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(core.NewValidator))
	must(c.Provide(newBroadcaster))
	must(c.Provide(newStudentService))
	must(c.Provide(newFeeService))
	must(c.Provide(newAttendanceService))
	must(c.Provide(newAnnouncementService))
	must(c.Provide(newTestService))
	must(c.Provide(newBackupService))
	must(c.Provide(newSettingsService))
	must(c.Provide(newDashboardService))
	must(c.Provide(newDueChecker))
	must(c.Provide(newRunner))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
