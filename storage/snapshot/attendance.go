package snapshot

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/attendance"
)

type attendanceRepository struct {
	store  core.KVStore
	logger core.Logger
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(store core.KVStore, logger core.Logger) *attendanceRepository {
	return &attendanceRepository{store: store, logger: logger}
}

func (repo *attendanceRepository) QueryHistory(ctx context.Context) (attendance.History, error) {
	history := make(attendance.History)
	if err := core.LoadJSON(ctx, repo.store, repo.logger, core.KeyAttendanceHistory, &history); err != nil {
		return nil, err
	}
	if history == nil {
		history = make(attendance.History)
	}
	if dropped := history.Normalize(); dropped > 0 {
		repo.logger.Warn("dropped unusable attendance entries", core.Fields{"count": dropped})
	}
	return history, nil
}

func (repo *attendanceRepository) SaveHistory(ctx context.Context, history attendance.History) error {
	if history == nil {
		history = make(attendance.History)
	}
	return core.SaveJSON(ctx, repo.store, core.KeyAttendanceHistory, history)
}

func (repo *attendanceRepository) QueryDaily(ctx context.Context) (attendance.Daily, error) {
	daily := make(attendance.Daily)
	if err := core.LoadJSON(ctx, repo.store, repo.logger, core.KeyAttendance, &daily); err != nil {
		return nil, err
	}
	if daily == nil {
		daily = make(attendance.Daily)
	}
	return daily, nil
}

func (repo *attendanceRepository) SaveDaily(ctx context.Context, daily attendance.Daily) error {
	if daily == nil {
		daily = make(attendance.Daily)
	}
	return core.SaveJSON(ctx, repo.store, core.KeyAttendance, daily)
}

// QueryLastDate also reads the bare (unquoted) date the browser dashboard stored.
func (repo *attendanceRepository) QueryLastDate(ctx context.Context) (core.Date, error) {
	data, err := repo.store.Get(ctx, core.KeyAttendanceLastDate)
	if err != nil {
		if errors.Cause(err) == core.ErrKeyNotFound {
			return core.Date{}, nil
		}
		return core.Date{}, errors.Wrap(err, "reading last attendance date")
	}
	data = bytes.TrimSpace(data)

	var date core.Date
	if len(data) > 0 && data[0] == '"' {
		err = json.Unmarshal(data, &date)
	} else if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		date, err = core.ParseDate(string(data))
	}
	if err != nil {
		repo.logger.Warn("discarding malformed last attendance date", core.Fields{"value": string(data)})
		return core.Date{}, nil
	}
	return date, nil
}

func (repo *attendanceRepository) SaveLastDate(ctx context.Context, date core.Date) error {
	return core.SaveJSON(ctx, repo.store, core.KeyAttendanceLastDate, date)
}
