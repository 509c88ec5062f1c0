package attendance

import (
	"context"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/student"
)

type (
	// Repository persists the attendance history, today's checklist and the date the checklist belongs to.
	Repository interface {
		QueryHistory(ctx context.Context) (History, error)
		SaveHistory(ctx context.Context, history History) error
		QueryDaily(ctx context.Context) (Daily, error)
		SaveDaily(ctx context.Context, daily Daily) error
		QueryLastDate(ctx context.Context) (core.Date, error)
		SaveLastDate(ctx context.Context, date core.Date) error
	}

	Service struct {
		mu   sync.Mutex
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	vala.BeginValidation().Validate(
		vala.IsNotNil(repo, "repo"),
	).CheckAndPanic()
	return &Service{repo: repo}
}

// Rollover clears today's checklist when it was filled on another day. The history is not touched.
// It reports whether the checklist was cleared.
func (svc *Service) Rollover(ctx context.Context) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return svc.rollover(ctx, core.Today())
}

func (svc *Service) rollover(ctx context.Context, today core.Date) (bool, error) {
	last, err := svc.repo.QueryLastDate(ctx)
	if err != nil {
		return false, errors.Wrap(err, "querying last attendance date")
	}
	if last.Equal(today) {
		return false, nil
	}
	if err = svc.repo.SaveDaily(ctx, Daily{}); err != nil {
		return false, errors.Wrap(err, "clearing daily attendance")
	}
	if err = svc.repo.SaveLastDate(ctx, today); err != nil {
		return false, errors.Wrap(err, "saving last attendance date")
	}
	return true, nil
}

// Today returns today's checklist.
func (svc *Service) Today(ctx context.Context) (Daily, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, err := svc.rollover(ctx, core.Today()); err != nil {
		return nil, err
	}
	daily, err := svc.repo.QueryDaily(ctx)
	return daily, errors.Wrap(err, "querying daily attendance")
}

// ToggleToday flips today's mark of a student and mirrors it in the history. It returns the new mark.
func (svc *Service) ToggleToday(ctx context.Context, studentID int64) (bool, error) {
	var present bool
	err := svc.mutateToday(ctx, func(today core.Date, daily Daily, history History) {
		present = !daily[studentID]
		daily[studentID] = present
		history.set(studentID, today, present)
	})
	return present, err
}

// BulkMark sets today's mark of every given student, in the checklist and the history.
func (svc *Service) BulkMark(ctx context.Context, studentIDs []int64, present bool) error {
	return svc.mutateToday(ctx, func(today core.Date, daily Daily, history History) {
		for _, id := range studentIDs {
			daily[id] = present
			history.set(id, today, present)
		}
	})
}

// ClearToday forgets today's marks of the given students, in the checklist and the history.
func (svc *Service) ClearToday(ctx context.Context, studentIDs []int64) error {
	return svc.mutateToday(ctx, func(today core.Date, daily Daily, history History) {
		for _, id := range studentIDs {
			delete(daily, id)
			history.remove(id, today)
		}
	})
}

// ToggleHistoricalDay cycles the entry of a student on date: missing -> present -> absent -> missing.
// It returns the resulting state of the day.
func (svc *Service) ToggleHistoricalDay(ctx context.Context, studentID int64, date core.Date) (DayStatus, error) {
	if date.IsZero() {
		return "", core.NewValidationError(core.ErrInvalidDate, core.FieldError{Field: "date", Error: core.ErrInvalidDate.Error()})
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	history, err := svc.repo.QueryHistory(ctx)
	if err != nil {
		return "", errors.Wrap(err, "querying attendance history")
	}
	history = CycleDay(history, studentID, date)
	if err = svc.repo.SaveHistory(ctx, history); err != nil {
		return "", errors.Wrap(err, "saving attendance history")
	}

	status := DayNone
	if e, ok := history.Entry(studentID, date); ok {
		status = DayAbsent
		if e.Present {
			status = DayPresent
		}
	}
	return status, nil
}

func (svc *Service) History(ctx context.Context) (History, error) {
	history, err := svc.repo.QueryHistory(ctx)
	return history, errors.Wrap(err, "querying attendance history")
}

// MonthlyStats returns the attendance of a student over month.
func (svc *Service) MonthlyStats(ctx context.Context, studentID int64, month core.Month) (Stats, error) {
	history, err := svc.History(ctx)
	if err != nil {
		return Stats{}, err
	}
	return MonthlyStats(history, studentID, month), nil
}

// Calendar returns the month's days of a student with their state.
func (svc *Service) Calendar(ctx context.Context, studentID int64, month core.Month) ([]Day, error) {
	history, err := svc.History(ctx)
	if err != nil {
		return nil, err
	}
	return MonthCalendar(history, studentID, month), nil
}

// Summary returns the monthly stats of every given student, in order.
func (svc *Service) Summary(ctx context.Context, month core.Month, students []student.Student) ([]SummaryRow, error) {
	history, err := svc.History(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]SummaryRow, 0, len(students))
	for _, std := range students {
		rows = append(rows, SummaryRow{
			StudentID: std.ID,
			Name:      std.Name,
			Grade:     std.Grade,
			Batch:     std.Batch,
			Stats:     MonthlyStats(history, std.ID, month),
		})
	}
	return rows, nil
}

func (svc *Service) mutateToday(ctx context.Context, fn func(today core.Date, daily Daily, history History)) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	today := core.Today()
	if _, err := svc.rollover(ctx, today); err != nil {
		return err
	}
	daily, err := svc.repo.QueryDaily(ctx)
	if err != nil {
		return errors.Wrap(err, "querying daily attendance")
	}
	history, err := svc.repo.QueryHistory(ctx)
	if err != nil {
		return errors.Wrap(err, "querying attendance history")
	}
	daily, history = daily.clone(), history.clone()

	fn(today, daily, history)

	if err = svc.repo.SaveDaily(ctx, daily); err != nil {
		return errors.Wrap(err, "saving daily attendance")
	}
	if err = svc.repo.SaveHistory(ctx, history); err != nil {
		return errors.Wrap(err, "saving attendance history")
	}
	return nil
}
