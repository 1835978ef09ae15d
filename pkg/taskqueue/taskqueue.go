package taskqueue

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrClosed se devuelve al encolar sobre una cola ya cerrada.
var ErrClosed = errors.New("taskqueue: cola cerrada")

// Job unidad de trabajo. Recibe un contexto con el timeout de la cola aplicado.
type Job func(ctx context.Context) error

// Result resultado de un job terminado, emitido por el canal de resultados.
type Result struct {
	Name     string
	Err      error
	Duration time.Duration
}

// Queue ejecuta jobs en segundo plano con concurrencia acotada y timeout por job.
// Pensada para trabajo fire-and-forget (notificaciones, tareas de mantenimiento)
// que no debe bloquear el request que lo origina.
type Queue struct {
	sem     chan struct{}
	timeout time.Duration
	results chan Result

	mu     sync.Mutex
	wg     sync.WaitGroup
	closed bool
}

// New crea una cola con hasta workers jobs simultáneos y timeout por job.
// workers <= 0 se normaliza a 1; timeout <= 0 deshabilita el timeout.
func New(workers int, timeout time.Duration) *Queue {
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		sem:     make(chan struct{}, workers),
		timeout: timeout,
		results: make(chan Result, workers*4),
	}
}

// Submit encola un job para ejecución asíncrona. Bloquea solo si todos los
// workers están ocupados. Devuelve ErrClosed tras Close.
func (q *Queue) Submit(name string, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.wg.Add(1)
	q.mu.Unlock()

	q.sem <- struct{}{}
	go func() {
		defer func() {
			<-q.sem
			q.wg.Done()
		}()

		ctx := context.Background()
		cancel := func() {}
		if q.timeout > 0 {
			ctx, cancel = context.WithTimeout(ctx, q.timeout)
		}
		defer cancel()

		start := time.Now()
		err := job(ctx)

		// Emisión no bloqueante: si nadie consume resultados, se descartan.
		select {
		case q.results <- Result{Name: name, Err: err, Duration: time.Since(start)}:
		default:
		}
	}()
	return nil
}

// Results canal de resultados de jobs terminados. Consumo opcional.
func (q *Queue) Results() <-chan Result {
	return q.results
}

// Close rechaza nuevos jobs y espera a que terminen los que están en vuelo.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.wg.Wait()
	close(q.results)
}
