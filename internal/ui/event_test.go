package ui

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	var got *Event
	r.Handle("addStudent", func(ctx context.Context, ev *Event) error {
		ev.PreventDefault()
		got = ev
		return nil
	})

	ev := NewEvent("addStudent", nil)
	require.False(t, ev.DefaultPrevented())
	require.NoError(t, r.Dispatch(context.Background(), ev))
	require.Same(t, ev, got)
	require.True(t, ev.DefaultPrevented())
	require.True(t, r.Has("addStudent"))
	require.Equal(t, []string{"addStudent"}, r.Names())
}

func TestRegistryUnknownEvent(t *testing.T) {
	r := NewRegistry()
	err := r.Dispatch(context.Background(), NewEvent("dropTables", nil))
	require.ErrorIs(t, err, ErrUnknownEvent)
}

func TestRegistryPropagatesHandlerError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Handle("x", func(ctx context.Context, ev *Event) error { return boom })
	require.ErrorIs(t, r.Dispatch(context.Background(), NewEvent("x", map[string]string{"id": "1"})), boom)
}

func TestEventArgs(t *testing.T) {
	ev := NewEvent("editCourse", map[string]string{"id": "3", "name": "Maths"})
	require.Equal(t, "3", ev.Arg("id"))
	require.Equal(t, "Maths", ev.Arg("name"))
	require.Empty(t, ev.Arg("missing"))
}
