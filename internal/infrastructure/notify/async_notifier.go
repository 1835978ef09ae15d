package notify

import (
	"context"

	"github.com/jhoicas/warehouse-ops-api/internal/application/demand"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
	"github.com/jhoicas/warehouse-ops-api/pkg/taskqueue"
)

var _ demand.Notifier = (*AsyncNotifier)(nil)

// AsyncNotifier despacha las notificaciones por la cola de tareas para no
// bloquear el request que creó el lote. El resultado del envío se registra
// en el log al terminar el job.
type AsyncNotifier struct {
	inner demand.Notifier
	queue *taskqueue.Queue
	log   *logger.Logger
}

// NewAsyncNotifier envuelve un Notifier con despacho asíncrono.
func NewAsyncNotifier(inner demand.Notifier, queue *taskqueue.Queue, log *logger.Logger) *AsyncNotifier {
	n := &AsyncNotifier{inner: inner, queue: queue, log: log}
	go n.drainResults()
	return n
}

// NotifyBatchCreated encola el aviso; solo falla si la cola está cerrada.
func (n *AsyncNotifier) NotifyBatchCreated(ctx context.Context, batch demand.BatchSummary) error {
	return n.queue.Submit("notify:"+batch.NeedNum, func(jobCtx context.Context) error {
		return n.inner.NotifyBatchCreated(jobCtx, batch)
	})
}

// Close cierra la cola y espera los envíos en vuelo.
func (n *AsyncNotifier) Close() {
	n.queue.Close()
}

func (n *AsyncNotifier) drainResults() {
	for res := range n.queue.Results() {
		if res.Err != nil {
			n.log.Warn().Err(res.Err).Str("job", res.Name).Dur("took", res.Duration).
				Msg("notificación fallida")
			continue
		}
		n.log.Debug().Str("job", res.Name).Dur("took", res.Duration).Msg("notificación entregada")
	}
}
