package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jhoicas/warehouse-ops-api/internal/application/demand"
	"github.com/jhoicas/warehouse-ops-api/pkg/logger"
)

var _ demand.Notifier = (*SendGridNotifier)(nil)

// Config del notificador por correo.
type Config struct {
	APIKey    string
	FromEmail string
	FromName  string
	ToEmail   string
}

// SendGridNotifier envía por SendGrid el aviso de lote de demanda creado.
// Si falta API key o destinatario queda deshabilitado y NotifyBatchCreated es no-op.
type SendGridNotifier struct {
	cfg Config
	log *logger.Logger
}

// NewSendGridNotifier construye el notificador.
func NewSendGridNotifier(cfg Config, log *logger.Logger) *SendGridNotifier {
	return &SendGridNotifier{cfg: cfg, log: log}
}

// Enabled indica si el notificador tiene configuración suficiente para enviar.
func (n *SendGridNotifier) Enabled() bool {
	return n.cfg.APIKey != "" && n.cfg.ToEmail != ""
}

// NotifyBatchCreated envía el resumen del lote. Mejor esfuerzo: el caller ya
// hizo commit y solo registra el error en el log.
func (n *SendGridNotifier) NotifyBatchCreated(ctx context.Context, batch demand.BatchSummary) error {
	if !n.Enabled() {
		n.log.Debug().Str("need_num", batch.NeedNum).Msg("notificador deshabilitado, se omite aviso")
		return nil
	}

	subject := fmt.Sprintf("Nuevo lote de demanda %s", batch.NeedNum)
	var b strings.Builder
	fmt.Fprintf(&b, "Lote: %s\n", batch.NeedNum)
	fmt.Fprintf(&b, "País: %s  Marketplace: %s\n", batch.Country, batch.Marketplace)
	fmt.Fprintf(&b, "Método de envío: %s\n", batch.ShippingMethod)
	fmt.Fprintf(&b, "Líneas: %d  Cantidad total: %s\n", batch.LineCount, batch.TotalQuantity.String())
	fmt.Fprintf(&b, "Creado por: %s\n", batch.CreatedBy)
	body := b.String()

	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromEmail)
	to := mail.NewEmail("", n.cfg.ToEmail)
	message := mail.NewSingleEmail(from, subject, to, body, fmt.Sprintf("<pre>%s</pre>", body))

	client := sendgrid.NewSendClient(n.cfg.APIKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d body=%s", response.StatusCode, response.Body)
	}

	n.log.Info().
		Str("need_num", batch.NeedNum).
		Int("status", response.StatusCode).
		Msg("aviso de lote enviado")
	return nil
}
