package logsvc

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aastha-hs1d/JyotiPortal/core"
	"github.com/Aastha-hs1d/JyotiPortal/core/announcement"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "TEST : ", 0), core.NewTestConfig())
	logger.Enable(false)

	logger.Warn("discarding malformed snapshot", core.Fields{"key": "fees"}, core.Actor{Email: "admin@jyoti.in"})
	logger.Error("saving students", errors.New("disk full"), map[string]interface{}{"count": 3})
	logger.Info("announcement due", announcement.Announcement{
		ID:       42,
		Title:    "Holiday",
		Message:  "No classes on Friday.",
		Schedule: core.DateTime{Time: time.Date(2024, 4, 16, 9, 30, 0, 0, time.UTC)},
		Status:   announcement.StatusScheduled,
	}, core.Fields{"source": "runner"})
	logger.Debug("rolled over", nil, 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, "TEST : WARN discarding malformed snapshot key=fees", lines[0])
	assert.Equal(t, "TEST : ERROR saving students count=3", lines[1])
	assert.Equal(t, "TEST : disk full", lines[2])

	out := buf.String()
	assert.NotContains(t, out, "admin@jyoti.in")
	assert.Contains(t, out, "TEST : INFO announcement due announcementId=42 schedule=2024-04-16T09:30:00Z source=runner status=Scheduled title=Holiday")
	assert.NotContains(t, out, "No classes on Friday.")
	assert.Contains(t, out, "TEST : DEBUG rolled over arg1=7")
}

func Test_newEntry(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	e := newEntry("ERROR", "broadcast failed", []interface{}{
		core.Actor{ID: "1", Email: "a@jyoti.in"},
		core.Actor{ID: "2", Email: "b@jyoti.in"},
		first,
		second,
	})
	require.NotNil(t, e.actor)
	assert.Equal(t, "1", e.actor.ID)
	assert.Equal(t, first, e.err)
	assert.Equal(t, core.Fields{"error3": "second"}, e.fields)
}
