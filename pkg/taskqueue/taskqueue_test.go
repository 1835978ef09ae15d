package taskqueue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_EjecutaYEmiteResultado(t *testing.T) {
	q := New(2, 0)

	var ran atomic.Bool
	require.NoError(t, q.Submit("ok", func(ctx context.Context) error {
		ran.Store(true)
		return nil
	}))

	select {
	case res := <-q.Results():
		assert.Equal(t, "ok", res.Name)
		assert.NoError(t, res.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("el resultado nunca llegó")
	}
	assert.True(t, ran.Load())
	q.Close()
}

func TestQueue_PropagaErrorDelJob(t *testing.T) {
	q := New(1, 0)
	boom := errors.New("boom")

	require.NoError(t, q.Submit("falla", func(ctx context.Context) error {
		return boom
	}))

	select {
	case res := <-q.Results():
		assert.Equal(t, "falla", res.Name)
		assert.ErrorIs(t, res.Err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("el resultado nunca llegó")
	}
	q.Close()
}

// La concurrencia nunca supera el número de workers configurado.
func TestQueue_ConcurrenciaAcotada(t *testing.T) {
	const workers = 2
	q := New(workers, 0)

	var current, peak int32
	var mu sync.Mutex
	release := make(chan struct{})

	var submitters sync.WaitGroup
	for i := 0; i < 6; i++ {
		submitters.Add(1)
		go func() {
			defer submitters.Done()
			_ = q.Submit("trabajo", func(ctx context.Context) error {
				n := atomic.AddInt32(&current, 1)
				mu.Lock()
				if n > peak {
					peak = n
				}
				mu.Unlock()
				<-release
				atomic.AddInt32(&current, -1)
				return nil
			})
		}()
	}

	// Deja que los primeros workers arranquen antes de soltar a todos.
	time.Sleep(100 * time.Millisecond)
	close(release)
	submitters.Wait()
	q.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int32(workers), "nunca más jobs simultáneos que workers")
}

func TestQueue_TimeoutCancelaElContexto(t *testing.T) {
	q := New(1, 50*time.Millisecond)

	require.NoError(t, q.Submit("lento", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}))

	select {
	case res := <-q.Results():
		assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("el timeout nunca disparó")
	}
	q.Close()
}

// Close espera a los jobs en vuelo y luego cierra el canal de resultados.
func TestQueue_CloseEsperaEnVuelo(t *testing.T) {
	q := New(1, 0)

	var done atomic.Bool
	require.NoError(t, q.Submit("en-vuelo", func(ctx context.Context) error {
		time.Sleep(100 * time.Millisecond)
		done.Store(true)
		return nil
	}))

	q.Close()
	assert.True(t, done.Load(), "Close retorna después de terminar el job")

	res, open := <-q.Results()
	require.True(t, open, "el resultado del job en vuelo sigue en el buffer")
	assert.NoError(t, res.Err)
	_, open = <-q.Results()
	assert.False(t, open, "el canal de resultados queda cerrado")
}

func TestQueue_SubmitTrasClose(t *testing.T) {
	q := New(1, 0)
	q.Close()

	err := q.Submit("tarde", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestQueue_CloseRepetidoEsInocuo(t *testing.T) {
	q := New(1, 0)
	q.Close()
	assert.NotPanics(t, func() { q.Close() })
}
