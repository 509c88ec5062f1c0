package snapshot

import (
	"context"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

type announcementRepository struct {
	store  core.KVStore
	logger core.Logger
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(store core.KVStore, logger core.Logger) *announcementRepository {
	return &announcementRepository{store: store, logger: logger}
}

func (repo *announcementRepository) QueryAllAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	announcements := make([]announcement.Announcement, 0)
	if err := core.LoadJSON(ctx, repo.store, repo.logger, core.KeyAnnouncements, &announcements); err != nil {
		return nil, err
	}
	if announcements == nil {
		announcements = make([]announcement.Announcement, 0)
	}
	return announcements, nil
}

func (repo *announcementRepository) SaveAnnouncements(ctx context.Context, announcements []announcement.Announcement) error {
	if announcements == nil {
		announcements = make([]announcement.Announcement, 0)
	}
	return core.SaveJSON(ctx, repo.store, core.KeyAnnouncements, announcements)
}
