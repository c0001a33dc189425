package observability

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	return NewLogger(logrus.PanicLevel, TextFormat, io.Discard)
}

func TestShutdownManager(t *testing.T) {
	sm := NewShutdownManager(quietLogger(), time.Second)

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		sm.Register("component", func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	require.NoError(t, sm.Shutdown(context.Background()))
	assert.Equal(t, int32(3), calls.Load())

	// Functions run once.
	require.NoError(t, sm.Shutdown(context.Background()))
	assert.Equal(t, int32(3), calls.Load())
}

func TestShutdownManager_Errors(t *testing.T) {
	sm := NewShutdownManager(quietLogger(), time.Second)
	sm.Register("tracer", func(context.Context) error { return errors.New("flush failed") })
	sm.Register("meter", func(context.Context) error { return nil })

	err := sm.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
	assert.Contains(t, err.Error(), "tracer: flush failed")
}

func TestShutdownManager_Timeout(t *testing.T) {
	sm := NewShutdownManager(quietLogger(), 20*time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	sm.Register("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	assert.EqualError(t, sm.Shutdown(context.Background()), "shutdown timeout reached")
}

func TestShutdownManager_IgnoresParentCancellation(t *testing.T) {
	sm := NewShutdownManager(quietLogger(), time.Second)

	var sawCancel atomic.Bool
	sm.Register("exporter", func(ctx context.Context) error {
		sawCancel.Store(ctx.Err() != nil)
		return nil
	})

	parent, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, sm.Shutdown(parent))
	assert.False(t, sawCancel.Load())
}
