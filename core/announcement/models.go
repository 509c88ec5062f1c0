package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

type Status string

const (
	StatusScheduled   Status = "Scheduled"
	StatusBroadcasted Status = "Broadcasted"

	defaultTitle = "Announcement"
)

// Announcement is a message scheduled for broadcast. Once broadcast it can no longer be edited.
type Announcement struct {
	ID        int64         `json:"id"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Schedule  core.DateTime `json:"schedule"`
	Status    Status        `json:"status"`
	CreatedAt core.DateTime `json:"createdAt"`
}

func (a Announcement) IsBroadcasted() bool {
	return a.Status == StatusBroadcasted
}

// LogFields describes the announcement in log entries. The message is left out.
func (a Announcement) LogFields() core.Fields {
	return core.Fields{
		"announcementId": a.ID,
		"title":          a.Title,
		"status":         a.Status,
		"schedule":       a.Schedule.Format(time.RFC3339),
	}
}

// IsDue reports whether a scheduled announcement's time has come.
func (a Announcement) IsDue(now core.DateTime) bool {
	return a.Status == StatusScheduled && !now.Before(a.Schedule.Time)
}

// NewAnnouncement contains information needed to create a new Announcement.
type NewAnnouncement struct {
	Title    string `json:"title"`
	Message  string `json:"message" validate:"notblank"`
	Schedule string `json:"schedule" validate:"omitempty,timestamp"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Message = core.CleanString(na.Message)
	na.Schedule = core.CleanString(na.Schedule)
	return validate.Struct(na)
}

// UpdateAnnouncement defines what information may be provided to modify an existing Announcement.
// A blank schedule keeps the current one.
type UpdateAnnouncement struct {
	Title    string `json:"title"`
	Message  string `json:"message" validate:"notblank"`
	Schedule string `json:"schedule" validate:"omitempty,timestamp"`
}

func (ua *UpdateAnnouncement) Validate(validate *validator.Validate) error {
	ua.Title = core.CleanString(ua.Title)
	ua.Message = core.CleanString(ua.Message)
	ua.Schedule = core.CleanString(ua.Schedule)
	return validate.Struct(ua)
}

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortOldest    SortOrder = "oldest"
	SortScheduled SortOrder = "scheduled"
)

type QueryFilter struct {
	Status Status    `query:"status"`
	Sort   SortOrder `query:"sort"`
}

func (qf *QueryFilter) Clean() {
	qf.Status = Status(core.CleanString(string(qf.Status)))
	if qf.Status == "all" {
		qf.Status = ""
	}
	qf.Sort = SortOrder(core.CleanString(string(qf.Sort), true /* lower */))
	if qf.Sort == "" {
		qf.Sort = SortNewest
	}
}
