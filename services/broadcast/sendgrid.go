package broadcastsvc

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

type sendgridService struct {
	key        string
	appName    string
	from       *sgmail.Email
	recipients []string
	logger     core.Logger
	api        func(req rest.Request) (*rest.Response, error)
}

var _ announcement.Broadcaster = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) *sendgridService {
	return &sendgridService{
		key:        conf.Broadcast.SendgridApiKey,
		appName:    conf.AppName,
		from:       sgmail.NewEmail(conf.Broadcast.FromName, conf.Broadcast.FromEmail),
		recipients: conf.Broadcast.Recipients,
		logger:     logger,
		api:        sendgrid.API,
	}
}

// prepare addresses every recipient through bcc so students don't see each other.
func (svc *sendgridService) prepare(a announcement.Announcement) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = subject(svc.appName, a)
	p.AddTos(svc.from)
	for _, addr := range svc.recipients {
		p.AddBCCs(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", text(a)))
	return m
}

func (svc *sendgridService) Broadcast(_ context.Context, a announcement.Announcement) error {
	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(a))

	res, err := svc.api(req)
	if err != nil {
		return errors.Wrap(err, "sending broadcast email")
	}
	if res.StatusCode >= http.StatusBadRequest {
		svc.logger.Error("sendgrid rejected broadcast", a, core.Fields{"status": res.StatusCode, "body": res.Body})
		return errors.Errorf("sending broadcast email: status %d", res.StatusCode)
	}
	return nil
}
