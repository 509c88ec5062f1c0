package broadcastsvc

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

const (
	DriverConsole  = "console"
	DriverSendgrid = "sendgrid"
	DriverTelegram = "telegram"
)

// New returns the broadcaster selected by conf.Broadcast.Driver.
func New(conf *core.Config, logger core.Logger) (announcement.Broadcaster, error) {
	switch conf.Broadcast.Driver {
	case DriverConsole, "":
		return NewConsoleService(logger), nil
	case DriverSendgrid:
		if conf.Broadcast.SendgridApiKey == "" || len(conf.Broadcast.Recipients) == 0 {
			return nil, errors.New("sendgrid broadcast needs an api key and at least one recipient")
		}
		return NewSendgridService(conf, logger), nil
	case DriverTelegram:
		svc, err := NewTelegramService(conf.Broadcast.TelegramToken, conf.Broadcast.TelegramChatID, logger)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, errors.Errorf("unknown broadcast driver %q", conf.Broadcast.Driver)
	}
}

func subject(appName string, a announcement.Announcement) string {
	return fmt.Sprintf("[%s] %s", appName, a.Title)
}

// text renders the plain text body shared by every channel.
func text(a announcement.Announcement) string {
	var b strings.Builder
	b.WriteString("📢 ")
	b.WriteString(a.Title)
	b.WriteString("\n\n")
	b.WriteString(a.Message)
	if !a.Schedule.IsZero() {
		_, _ = fmt.Fprintf(&b, "\n\n%s", a.Schedule.Time.Format("02 Jan 2006, 03:04 PM"))
	}
	return b.String()
}
