package listener

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	sql  string
	args []any
	err  error
}

func (f *fakeExec) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return pgconn.NewCommandTag("SELECT 1"), f.err
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func payload(t *testing.T, ev Event) string {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return string(b)
}

func TestPublish(t *testing.T) {
	db := &fakeExec{}
	l := New("", db, quiet())
	require.NoError(t, l.Publish(context.Background(), KindKnowledgeReload))

	assert.Equal(t, "notify_sync", db.sql)
	require.Len(t, db.args, 2)
	assert.Equal(t, Channel, db.args[0])
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(db.args[1].(string)), &ev))
	assert.Equal(t, KindKnowledgeReload, ev.Kind)
	assert.Equal(t, l.Origin(), ev.Origin)
	assert.NotZero(t, ev.Timestamp)
}

func TestPublish_Error(t *testing.T) {
	l := New("", &fakeExec{err: errors.New("conn closed")}, quiet())
	err := l.Publish(context.Background(), KindRosterRefresh)
	assert.ErrorContains(t, err, "roster_refresh")
}

func TestDispatch(t *testing.T) {
	l := New("", &fakeExec{}, quiet())
	reloads := 0
	l.Handle(KindKnowledgeReload, func(context.Context) error { reloads++; return nil })
	l.Handle(KindRosterRefresh, func(context.Context) error { return errors.New("nhl down") })
	ctx := context.Background()

	assert.True(t, l.dispatch(ctx, payload(t, Event{Kind: KindKnowledgeReload, Origin: "peer"})))
	assert.Equal(t, 1, reloads)

	assert.False(t, l.dispatch(ctx, payload(t, Event{Kind: KindKnowledgeReload, Origin: l.Origin()})), "own events are ignored")
	assert.Equal(t, 1, reloads)

	assert.True(t, l.dispatch(ctx, payload(t, Event{Kind: KindRosterRefresh, Origin: "peer"})), "handler errors are logged")
	assert.False(t, l.dispatch(ctx, payload(t, Event{Kind: "unknown", Origin: "peer"})))
	assert.False(t, l.dispatch(ctx, "not json"))
}

func TestNew_UniqueOrigins(t *testing.T) {
	assert.NotEqual(t, New("", nil, nil).Origin(), New("", nil, nil).Origin())
}
