package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type exampleEvent struct {
	At    time.Time
	Value string

	id int64
}

var _ Recordable = exampleEvent{}

func (e exampleEvent) TypeName() string { return "store.exampleEvent" }
func (e exampleEvent) Ts() time.Time    { return e.At }

func (e exampleEvent) SetId(id int64) Recordable {
	e.id = id
	return e
}

func init() {
	Register(exampleEvent{})
}

func TestRecordable(t *testing.T) {
	data, err := Encode(exampleEvent{
		At:    time.Unix(1, 0),
		Value: "testing",
	})
	require.NoError(t, err)
	t.Log(string(data))

	got, err := Decode(data)
	require.NoError(t, err)
	require.IsType(t, exampleEvent{}, got)

	gotT := got.(exampleEvent)
	require.Equal(t,
		time.Unix(1, 0).Format(time.RFC3339Nano),
		gotT.At.Format(time.RFC3339Nano),
	)
	require.Equal(t, "testing", gotT.Value)
}

func TestDecodeUnregistered(t *testing.T) {
	_, err := Decode([]byte(`{"type":"nope","payload":{}}`))
	require.ErrorContains(t, err, "unregistered event type: nope")
}
