package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// LeadNotifier avisa o time comercial sobre um novo lead (e-mail, no caso padrão).
type LeadNotifier interface {
	NotifyNewLead(ctx context.Context, payload LeadCapturedPayload) error
}

// Consumer é satisfeito por *amqp.Channel.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  Consumer
	Notifier LeadNotifier
	Log      logrus.FieldLogger
}

func NewWorker(ch Consumer, notifier LeadNotifier, log logrus.FieldLogger) *Worker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Worker{Channel: ch, Notifier: notifier, Log: log}
}

// Start consome a fila até o ctx acabar ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName, // fila
		"",        // consumer
		false,     // auto-ack (manual)
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	w.Log.WithField("queue", queueName).Info("📬 Worker de notificações aguardando mensagens")

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("⚠️ Worker de notificações encerrado")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Log.Warn("⚠️ Canal de entregas fechado")
				return nil
			}
			w.Handle(ctx, d)
		}
	}
}

// Handle processa uma entrega: payload podre ou falha no envio => Nack sem requeue (vai pra DLQ).
func (w *Worker) Handle(ctx context.Context, d amqp.Delivery) {
	var payload LeadCapturedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		w.Log.WithError(err).Error("❌ [WORKER] JSON inválido")
		d.Nack(false, false)
		return
	}

	log := w.Log.WithField("lead_id", payload.LeadID)
	if payload.LeadID == "" {
		log.Error("❌ [WORKER] Evento sem lead_id")
		d.Nack(false, false)
		return
	}

	if err := w.Notifier.NotifyNewLead(ctx, payload); err != nil {
		log.WithError(err).Error("❌ [WORKER] Falha ao notificar novo lead")
		d.Nack(false, false)
		return
	}

	log.Info("✅ [WORKER] Notificação de lead enviada")
	d.Ack(false)
}
