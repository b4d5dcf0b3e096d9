package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamHookPublishesShellEvents(t *testing.T) {
	hook := NewStreamHook()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub, err := hook.Stream().Subscribe(ctx, ShellEventScope(), "")
	require.NoError(t, err)
	require.NoError(t, hook.Notify(ctx, Event{Reason: "update", UpdateAvailable: true}))

	select {
	case record := <-sub.Records:
		assert.Equal(t, "dashboard.update", record.Event.Name)
		assert.JSONEq(t, `{"reason":"update","update_available":true}`, string(record.Event.Payload))
		assert.NotEmpty(t, record.Cursor)
	case <-time.After(time.Second):
		t.Fatalf("expected published record")
	}
	assert.Equal(t, int64(1), hook.Stream().SnapshotStats().PublishedCount)
}
