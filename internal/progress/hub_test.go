package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	hub := NewHub(8)
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(Report{OperationID: "comfyui", Percentage: 10, Message: "cloning", Kind: KindInstall})
	hub.Publish(Report{OperationID: "comfyui", Percentage: 40, Message: "venv", Kind: KindInstall})
	hub.Publish(Report{OperationID: "comfyui", Percentage: 90, Message: "requirements", Kind: KindInstall})

	for _, want := range []float64{10, 40, 90} {
		got := <-ch
		assert.Equal(t, want, got.Percentage)
		assert.Equal(t, "comfyui", got.OperationID)
	}
}

func TestLateSubscriberSeesOnlyFutureReports(t *testing.T) {
	hub := NewHub(8)
	defer hub.Close()

	hub.Publish(Report{OperationID: "a", Percentage: 50})

	ch, cancel := hub.Subscribe()
	defer cancel()

	hub.Publish(Report{OperationID: "a", Percentage: 75})

	got := <-ch
	assert.Equal(t, 75.0, got.Percentage, "no replay of earlier emissions")
	assert.Empty(t, ch)
}

func TestSlowObserverDoesNotBlockPublisher(t *testing.T) {
	hub := NewHub(2)
	defer hub.Close()

	_, cancel := hub.Subscribe() // never drained
	defer cancel()

	// Far more emissions than the buffer holds; Publish must not block.
	for i := 0; i < 100; i++ {
		hub.Publish(Report{OperationID: "a", Percentage: float64(i)})
	}
}

func TestGlobalAggregate(t *testing.T) {
	hub := NewHub(8)
	defer hub.Close()

	ch, cancel := hub.SubscribeGlobal()
	defer cancel()

	hub.Publish(Report{OperationID: "a", Percentage: 20, Kind: KindInstall})
	got := <-ch
	require.False(t, got.Indeterminate)
	assert.Equal(t, 20.0, got.Percentage)

	hub.Publish(Report{OperationID: "b", Percentage: 80, Kind: KindUpdate})
	got = <-ch
	assert.Equal(t, 50.0, got.Percentage, "mean of active operations")

	// Indeterminate operations are excluded from the mean.
	hub.Publish(Report{OperationID: "c", Percentage: IndeterminatePercent, Indeterminate: true})
	got = <-ch
	assert.Equal(t, 50.0, got.Percentage)

	// Ending an operation removes it from the aggregate.
	hub.EndOperation("b")
	hub.Publish(Report{OperationID: "a", Percentage: 30})
	got = <-ch
	assert.Equal(t, 30.0, got.Percentage)
}

func TestGlobalAggregateAllIndeterminate(t *testing.T) {
	hub := NewHub(8)
	defer hub.Close()

	ch, cancel := hub.SubscribeGlobal()
	defer cancel()

	hub.Publish(Report{OperationID: "a", Indeterminate: true, Percentage: IndeterminatePercent})
	got := <-ch
	assert.True(t, got.Indeterminate)
	assert.Equal(t, float64(IndeterminatePercent), got.Percentage)
}

func TestCancelIsIdempotent(t *testing.T) {
	hub := NewHub(8)
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	cancel()
	cancel() // second call must not panic

	_, open := <-ch
	assert.False(t, open, "channel closed after cancel")

	// Publishing after unsubscribe must not panic or deliver.
	hub.Publish(Report{OperationID: "a", Percentage: 10})
}

func TestReporterLifecycle(t *testing.T) {
	hub := NewHub(8)
	defer hub.Close()

	ch, cancel := hub.Subscribe()
	defer cancel()

	rep := hub.Reporter("fooocus", KindInstall)
	rep.Send(25, "cloning repository")
	rep.Indeterminate("installing requirements")
	rep.Fail("pip install failed")
	rep.Done("installed")

	got := <-ch
	assert.Equal(t, 25.0, got.Percentage)
	assert.Equal(t, KindInstall, got.Kind)

	got = <-ch
	assert.True(t, got.Indeterminate)

	got = <-ch
	assert.True(t, got.Failed)

	got = <-ch
	assert.Equal(t, 100.0, got.Percentage)
}

func TestNilReporterIsSafe(t *testing.T) {
	var rep *Reporter
	rep.Send(10, "x")
	rep.Indeterminate("x")
	rep.Fail("x")
	rep.Done("x")
	rep.End()
}

func TestPublishAfterCloseIsNoop(t *testing.T) {
	hub := NewHub(8)
	ch, _ := hub.Subscribe()
	hub.Close()

	hub.Publish(Report{OperationID: "a", Percentage: 10})

	_, open := <-ch
	assert.False(t, open)
}
