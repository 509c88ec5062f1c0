package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
	"github.com/Aastha-hs1d/JyotiPortal/core/backup"
	"github.com/Aastha-hs1d/JyotiPortal/core/dashboard"
	"github.com/Aastha-hs1d/JyotiPortal/core/fee"
	"github.com/Aastha-hs1d/JyotiPortal/core/settings"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
	"github.com/Aastha-hs1d/JyotiPortal/core/testgen"
)

type Options struct {
	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator

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

type Server struct {
	opts     *Options
	app      *echo.Echo
	errors   chan error
	shutdown chan os.Signal
}

func NewServer(opts *Options) *Server {
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)

	v1 := s.app.Group("/v1")
	auth := newAuthenticator(conf, s.opts.Validate)
	v1.POST("/auth/login", auth.login)

	g := v1.Group("")
	if auth.enabled() {
		g.Use(auth.middleware())
	}

	registerStudentAPI(g, s.opts.StudentSvc)
	registerFeeAPI(g, s.opts.FeeSvc)
	registerAttendanceAPI(g, s.opts.AttendanceSvc, s.opts.StudentSvc)
	registerAnnouncementAPI(g, s.opts.AnnouncementSvc, s.opts.Notifier)
	registerTestAPI(g, s.opts.TestSvc)
	registerBackupAPI(g, s.opts.BackupSvc)
	registerSettingsAPI(g, s.opts.SettingsSvc)
	registerDashboardAPI(g, s.opts.DashboardSvc)
}

// Start listens on the configured address. Failures are reported on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- errors.Wrap(err, "starting server")
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown asks the process to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.opts.Conf.AppName+" API!")
}
