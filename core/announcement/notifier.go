package announcement

import (
	"context"
	"sync"
	"time"

	"github.com/kat-co/vala"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Notification tells that a scheduled announcement's time has arrived.
type Notification struct {
	Announcement Announcement  `json:"announcement"`
	RaisedAt     core.DateTime `json:"raisedAt"`
	ExpiresAt    core.DateTime `json:"expiresAt"`
}

type dueLister interface {
	Due(ctx context.Context, now core.DateTime) ([]Announcement, error)
}

// DueChecker raises one notification per due announcement and process lifetime.
// At most one notification is active at a time and it dismisses itself after ttl.
type DueChecker struct {
	mu       sync.Mutex
	source   dueLister
	logger   core.Logger
	ttl      time.Duration
	notified map[int64]bool
	current  *Notification
}

func NewDueChecker(source *Service, logger core.Logger, ttl time.Duration) *DueChecker {
	vala.BeginValidation().Validate(
		vala.IsNotNil(source, "source"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()
	return newDueChecker(source, logger, ttl)
}

func newDueChecker(source dueLister, logger core.Logger, ttl time.Duration) *DueChecker {
	return &DueChecker{source: source, logger: logger, ttl: ttl, notified: make(map[int64]bool)}
}

// Check scans the due announcements and raises a notification for the first one not notified yet,
// unless a notification is still active. It returns the raised notification, if any.
func (dc *DueChecker) Check(ctx context.Context, now core.DateTime) (*Notification, error) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if dc.active(now) != nil {
		return nil, nil
	}
	due, err := dc.source.Due(ctx, now)
	if err != nil {
		return nil, err
	}
	for _, a := range due {
		if dc.notified[a.ID] {
			continue
		}
		dc.notified[a.ID] = true
		dc.current = &Notification{
			Announcement: a,
			RaisedAt:     now,
			ExpiresAt:    core.DateTime{Time: now.Add(dc.ttl)},
		}
		dc.logger.Info("announcement due", a)
		n := *dc.current
		return &n, nil
	}
	return nil, nil
}

// Current returns the active notification, if it has not expired yet.
func (dc *DueChecker) Current(now core.DateTime) (Notification, bool) {
	dc.mu.Lock()
	defer dc.mu.Unlock()

	if n := dc.active(now); n != nil {
		return *n, true
	}
	return Notification{}, false
}

// Dismiss clears the active notification.
func (dc *DueChecker) Dismiss() {
	dc.mu.Lock()
	dc.current = nil
	dc.mu.Unlock()
}

func (dc *DueChecker) active(now core.DateTime) *Notification {
	if dc.current != nil && now.Before(dc.current.ExpiresAt.Time) {
		return dc.current
	}
	dc.current = nil
	return nil
}
