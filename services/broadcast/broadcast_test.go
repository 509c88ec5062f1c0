package broadcastsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
	logsvc "github.com/Aastha-hs1d/JyotiPortal/services/logger"
)

func newLogger(buf *bytes.Buffer) core.Logger {
	l := logsvc.NewRollbarLogger(log.New(buf, "", 0), core.NewTestConfig())
	l.Enable(false)
	return l
}

func sample() announcement.Announcement {
	return announcement.Announcement{
		ID:       42,
		Title:    "Holiday",
		Message:  "No classes on Friday.",
		Schedule: core.DateTime{Time: time.Date(2024, 4, 16, 9, 30, 0, 0, time.UTC)},
		Status:   announcement.StatusScheduled,
	}
}

func TestText(t *testing.T) {
	require.Equal(t, "📢 Holiday\n\nNo classes on Friday.\n\n16 Apr 2024, 09:30 AM", text(sample()))
}

func TestConsoleService(t *testing.T) {
	var buf bytes.Buffer
	svc := NewConsoleService(newLogger(&buf))

	require.NoError(t, svc.Broadcast(context.Background(), sample()))
	require.Len(t, svc.Sent(), 1)
	require.Contains(t, buf.String(), "No classes on Friday.")
}

func TestSendgridService(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Broadcast.SendgridApiKey = "key"
	conf.Broadcast.FromEmail = "office@jyoti.test"
	conf.Broadcast.FromName = "Jyoti"
	conf.Broadcast.Recipients = []string{"a@jyoti.test", "b@jyoti.test"}

	tests := []struct {
		name    string
		status  int
		apiErr  error
		wantErr bool
	}{
		{"accepted", http.StatusAccepted, nil, false},
		{"rejected", http.StatusUnauthorized, nil, true},
		{"network error", 0, errors.New("dial tcp: timeout"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			var got rest.Request
			svc := NewSendgridService(conf, newLogger(&buf))
			svc.api = func(req rest.Request) (*rest.Response, error) {
				got = req
				if tc.apiErr != nil {
					return nil, tc.apiErr
				}
				return &rest.Response{StatusCode: tc.status}, nil
			}

			err := svc.Broadcast(context.Background(), sample())
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}

			var body struct {
				Subject          string `json:"subject"`
				Personalizations []struct {
					Subject string `json:"subject"`
					Bcc     []struct {
						Email string `json:"email"`
					} `json:"bcc"`
				} `json:"personalizations"`
			}
			require.NoError(t, json.Unmarshal(got.Body, &body))
			require.Len(t, body.Personalizations, 1)
			require.Equal(t, "[Jyoti Portal] Holiday", body.Personalizations[0].Subject)
			require.Len(t, body.Personalizations[0].Bcc, 2)
		})
	}
}

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func TestTelegramService(t *testing.T) {
	var buf bytes.Buffer
	sender := &fakeSender{}
	svc := &telegramService{bot: sender, chatID: -100123, logger: newLogger(&buf)}

	require.NoError(t, svc.Broadcast(context.Background(), sample()))
	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	require.Equal(t, int64(-100123), msg.ChatID)
	require.Contains(t, msg.Text, "Holiday")

	sender.err = errors.New("bot was kicked")
	require.Error(t, svc.Broadcast(context.Background(), sample()))
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf)

	conf := core.NewTestConfig()
	b, err := New(conf, logger)
	require.NoError(t, err)
	require.IsType(t, &ConsoleService{}, b)

	conf.Broadcast.Driver = DriverSendgrid
	_, err = New(conf, logger)
	require.Error(t, err)

	conf.Broadcast.Driver = DriverTelegram
	_, err = New(conf, logger)
	require.Error(t, err)

	conf.Broadcast.Driver = "whatsapp"
	_, err = New(conf, logger)
	require.Error(t, err)
}
