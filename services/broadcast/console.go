package broadcastsvc

import (
	"context"
	"sync"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

type ConsoleService struct {
	logger core.Logger

	mu   sync.Mutex
	sent []announcement.Announcement
}

var _ announcement.Broadcaster = (*ConsoleService)(nil)

func NewConsoleService(logger core.Logger) *ConsoleService {
	return &ConsoleService{logger: logger}
}

func (svc *ConsoleService) Broadcast(_ context.Context, a announcement.Announcement) error {
	svc.logger.Info("broadcast:\n"+text(a), a)
	svc.mu.Lock()
	svc.sent = append(svc.sent, a)
	svc.mu.Unlock()
	return nil
}

// Sent returns the announcements broadcast so far.
func (svc *ConsoleService) Sent() []announcement.Announcement {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	res := make([]announcement.Announcement, len(svc.sent))
	copy(res, svc.sent)
	return res
}
