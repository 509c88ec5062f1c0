package broadcastsvc

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type telegramService struct {
	bot    messageSender
	chatID int64
	logger core.Logger
}

var _ announcement.Broadcaster = (*telegramService)(nil)

func NewTelegramService(token string, chatID int64, logger core.Logger) (*telegramService, error) {
	if token == "" || chatID == 0 {
		return nil, errors.New("telegram broadcast needs a bot token and a chat id")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to telegram")
	}
	logger.Info("telegram broadcaster authorized", core.Fields{"bot": bot.Self.UserName})
	return &telegramService{bot: bot, chatID: chatID, logger: logger}, nil
}

func (svc *telegramService) Broadcast(_ context.Context, a announcement.Announcement) error {
	msg := tgbotapi.NewMessage(svc.chatID, text(a))
	if _, err := svc.bot.Send(msg); err != nil {
		return errors.Wrap(err, "sending telegram broadcast")
	}
	return nil
}
