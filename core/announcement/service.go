package announcement

import (
	"context"
	"sort"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

var (
	// errors
	ErrNotFound    = errors.New("announcement not found")
	ErrBroadcasted = errors.New("announcement already broadcasted")
)

type (
	// Repository persists the full list of announcements as one snapshot.
	Repository interface {
		QueryAllAnnouncements(ctx context.Context) ([]Announcement, error)
		SaveAnnouncements(ctx context.Context, announcements []Announcement) error
	}

	// Broadcaster sends an announcement out to students.
	Broadcaster interface {
		Broadcast(ctx context.Context, a Announcement) error
	}

	Service struct {
		mu          sync.Mutex
		repo        Repository
		broadcaster Broadcaster
		validate    *validator.Validate
	}
)

func NewService(repo Repository, broadcaster Broadcaster, validate *validator.Validate) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
		vala.IsNotNil(broadcaster, "broadcaster"),
		vala.IsNotNil(validate, "validate"),
	).CheckAndPanic()
	return &Service{repo: repo, broadcaster: broadcaster, validate: validate}
}

// Create stores a new Scheduled announcement. A blank title becomes "Announcement",
// a blank schedule means now. Newest announcements come first.
func (svc *Service) Create(ctx context.Context, na NewAnnouncement) (Announcement, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}
	now := core.Now()
	schedule := now
	if na.Schedule != "" {
		schedule, _ = core.ParseDateTime(na.Schedule)
	}
	a := Announcement{
		ID:        core.NextID(),
		Title:     titleOrDefault(na.Title),
		Message:   na.Message,
		Schedule:  schedule,
		Status:    StatusScheduled,
		CreatedAt: now,
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "querying announcements")
	}
	if err = svc.repo.SaveAnnouncements(ctx, append([]Announcement{a}, all...)); err != nil {
		return Announcement{}, errors.Wrap(err, "saving announcements")
	}
	return a, nil
}

// Edit replaces the title, message and schedule of a Scheduled announcement.
func (svc *Service) Edit(ctx context.Context, id int64, ua UpdateAnnouncement) (Announcement, error) {
	if err := ua.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}
	return svc.update(ctx, id, func(a *Announcement) error {
		if a.IsBroadcasted() {
			return ErrBroadcasted
		}
		a.Title = titleOrDefault(ua.Title)
		a.Message = ua.Message
		if ua.Schedule != "" {
			a.Schedule, _ = core.ParseDateTime(ua.Schedule)
		}
		return nil
	})
}

// MarkBroadcast sends the announcement through the broadcaster and marks it Broadcasted for good.
// Nothing is written when the broadcast fails.
func (svc *Service) MarkBroadcast(ctx context.Context, id int64) (Announcement, error) {
	return svc.update(ctx, id, func(a *Announcement) error {
		if a.IsBroadcasted() {
			return ErrBroadcasted
		}
		if err := svc.broadcaster.Broadcast(ctx, *a); err != nil {
			return errors.Wrap(err, "broadcasting announcement")
		}
		a.Status = StatusBroadcasted
		return nil
	})
}

// Delete removes the announcement with the given ID. Unknown IDs are ignored.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	kept := make([]Announcement, 0, len(all))
	for _, a := range all {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	return errors.Wrap(svc.repo.SaveAnnouncements(ctx, kept), "saving announcements")
}

// Lock blocks every announcement mutation until Unlock, so the snapshot can be replaced wholesale.
func (svc *Service) Lock()   { svc.mu.Lock() }
func (svc *Service) Unlock() { svc.mu.Unlock() }

func (svc *Service) GetByID(ctx context.Context, id int64) (Announcement, error) {
	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "querying announcements")
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return Announcement{}, ErrNotFound
}

// Query lists announcements with the given status (all when blank) in the requested order.
func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Announcement, error) {
	filter.Clean()
	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}

	res := make([]Announcement, 0, len(all))
	for _, a := range all {
		if filter.Status == "" || a.Status == filter.Status {
			res = append(res, a)
		}
	}
	sort.SliceStable(res, func(i, j int) bool {
		switch filter.Sort {
		case SortOldest:
			return res[i].CreatedAt.Before(res[j].CreatedAt.Time)
		case SortScheduled:
			return res[i].Schedule.Before(res[j].Schedule.Time)
		default:
			return res[i].CreatedAt.After(res[j].CreatedAt.Time)
		}
	})
	return res, nil
}

// Upcoming returns the next announcement still waiting for its schedule, if any.
func (svc *Service) Upcoming(ctx context.Context, now core.DateTime) (Announcement, bool, error) {
	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return Announcement{}, false, errors.Wrap(err, "querying announcements")
	}
	var (
		next  Announcement
		found bool
	)
	for _, a := range all {
		if a.IsBroadcasted() || !a.Schedule.After(now.Time) {
			continue
		}
		if !found || a.Schedule.Before(next.Schedule.Time) {
			next, found = a, true
		}
	}
	return next, found, nil
}

// Due lists the Scheduled announcements whose time has come, earliest first.
func (svc *Service) Due(ctx context.Context, now core.DateTime) ([]Announcement, error) {
	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	due := make([]Announcement, 0)
	for _, a := range all {
		if a.IsDue(now) {
			due = append(due, a)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].Schedule.Before(due[j].Schedule.Time) })
	return due, nil
}

func (svc *Service) update(ctx context.Context, id int64, fn func(a *Announcement) error) (Announcement, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return Announcement{}, errors.Wrap(err, "querying announcements")
	}
	for i := range all {
		if all[i].ID != id {
			continue
		}
		a := all[i]
		if err = fn(&a); err != nil {
			return Announcement{}, err
		}
		updated := make([]Announcement, len(all))
		copy(updated, all)
		updated[i] = a
		if err = svc.repo.SaveAnnouncements(ctx, updated); err != nil {
			return Announcement{}, errors.Wrap(err, "saving announcements")
		}
		return a, nil
	}
	return Announcement{}, ErrNotFound
}

func titleOrDefault(title string) string {
	if title == "" {
		return defaultTitle
	}
	return title
}
