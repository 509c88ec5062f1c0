package announcement

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stdLogger struct {
	*log.Logger
}

func (l stdLogger) Debug(msg string, args ...interface{}) {
	l.Println(append([]interface{}{msg}, args...)...)
}
func (l stdLogger) Info(msg string, args ...interface{}) {
	l.Println(append([]interface{}{msg}, args...)...)
}
func (l stdLogger) Warn(msg string, args ...interface{}) {
	l.Println(append([]interface{}{msg}, args...)...)
}
func (l stdLogger) Error(msg string, args ...interface{}) {
	l.Println(append([]interface{}{msg}, args...)...)
}
func (l stdLogger) Fatal(msg string, args ...interface{}) {
	l.Fatalln(append([]interface{}{msg}, args...)...)
}

func TestDueChecker(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := setup(t)
	seed(repo)
	var buf bytes.Buffer
	dc := NewDueChecker(svc, stdLogger{log.New(&buf, "", 0)}, 8*time.Second)

	// 1 and 3 are both due, only the earliest is raised
	t0 := dt("2024-04-16T08:00:00Z")
	n, err := dc.Check(ctx, t0)
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(1), n.Announcement.ID)
	assert.Contains(t, buf.String(), "announcement due")

	cur, ok := dc.Current(dt("2024-04-16T08:00:07Z"))
	require.True(t, ok)
	assert.Equal(t, int64(1), cur.Announcement.ID)

	// 3 is waiting but the first notification is still showing
	n, err = dc.Check(ctx, dt("2024-04-16T08:00:05Z"))
	require.NoError(t, err)
	assert.Nil(t, n)

	_, ok = dc.Current(dt("2024-04-16T08:00:08Z"))
	assert.False(t, ok, "dismissed after ttl")

	n, err = dc.Check(ctx, dt("2024-04-16T08:00:30Z"))
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, int64(3), n.Announcement.ID)

	// one-shot: neither is raised again
	n, err = dc.Check(ctx, dt("2024-04-16T09:00:00Z"))
	require.NoError(t, err)
	assert.Nil(t, n)

	dc.current = &Notification{Announcement: Announcement{ID: 9}, ExpiresAt: dt("2024-04-17T00:00:00Z")}
	dc.Dismiss()
	_, ok = dc.Current(dt("2024-04-16T09:00:01Z"))
	assert.False(t, ok)
}

func TestRunner(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(stdLogger{log.New(&buf, "", 0)}, 30*time.Second)
	require.NoError(t, r.Add("noop", func(context.Context) error { return nil }))
	r.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Stop(ctx)
	assert.Empty(t, buf.String())
}
