package orders

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

type fakeWriter struct {
	msgs   []kafka.Message
	fail   bool
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestSimulatedPlacer_WaitsForDelay(t *testing.T) {
	start := time.Now()
	err := SimulatedPlacer{Delay: 30 * time.Millisecond}.Place(context.Background(), model.Order{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSimulatedPlacer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := SimulatedPlacer{Delay: time.Hour}.Place(ctx, model.Order{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKafkaPublisher_Place(t *testing.T) {
	fw := &fakeWriter{}
	kp := NewKafkaPublisherWith(fw)
	require.NoError(t, kp.Place(context.Background(), model.Order{ID: "o-1", Number: 7}))
	require.Len(t, fw.msgs, 1)
	assert.Equal(t, "o-1", string(fw.msgs[0].Key))

	var ev PlacedEvent
	require.NoError(t, json.Unmarshal(fw.msgs[0].Value, &ev))
	assert.Equal(t, EventOrderPlaced, ev.Type)
	assert.Equal(t, uint64(7), ev.Order.Number)

	require.NoError(t, kp.Close())
	assert.True(t, fw.closed)
}

func TestKafkaPublisher_Error(t *testing.T) {
	kp := NewKafkaPublisherWith(&fakeWriter{fail: true})
	err := kp.Place(context.Background(), model.Order{ID: "o-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "o-2")
}

func TestChain_StopsAtFirstError(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	c := Chain{
		PlacerFunc(func(context.Context, model.Order) error { calls = append(calls, "a"); return nil }),
		PlacerFunc(func(context.Context, model.Order) error { calls = append(calls, "b"); return boom }),
		PlacerFunc(func(context.Context, model.Order) error { calls = append(calls, "c"); return nil }),
	}
	assert.ErrorIs(t, c.Place(context.Background(), model.Order{}), boom)
	assert.Equal(t, []string{"a", "b"}, calls)
}
