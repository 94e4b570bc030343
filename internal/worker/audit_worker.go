package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"nextbase/internal/model"
	"nextbase/internal/platform/rabbitmq"
)

const (
	auditConsumerTag = "nextbase-audit"
	auditPrefetch    = 16
)

var errEmptyEvent = errors.New("event has no entity or action")

type AuditRecorder interface {
	Record(ctx context.Context, event model.EntityEvent) (*model.AuditLog, error)
}

// AuditWorker consumes entity change events and stores each one as an audit log row.
type AuditWorker struct {
	conn      *amqp.Connection
	recorder  AuditRecorder
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewAuditWorker(conn *amqp.Connection, recorder AuditRecorder, queueName string) *AuditWorker {
	return &AuditWorker{
		conn:      conn,
		recorder:  recorder,
		queueName: queueName,
	}
}

func (w *AuditWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	if err := ch.Qos(auditPrefetch, 0, false); err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("set worker prefetch failed: %w", err)
	}

	deliveries, err := ch.Consume(w.queueName, auditConsumerTag, false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue %s failed: %w", w.queueName, err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					log.Printf("audit worker: delivery channel for %s closed", w.queueName)
					return
				}
				w.process(workerCtx, d)
			}
		}
	}()

	return nil
}

// process acks a delivery once its audit row is stored. Undecodable or unstorable
// events are dropped without requeue.
func (w *AuditWorker) process(ctx context.Context, d amqp.Delivery) {
	var event model.EntityEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("audit worker decode event failed: %v", err)
		_ = d.Nack(false, false)
		return
	}
	if event.Entity == "" || event.Action == "" {
		log.Printf("audit worker rejected event: %v", errEmptyEvent)
		_ = d.Nack(false, false)
		return
	}

	if _, err := w.recorder.Record(ctx, event); err != nil {
		log.Printf("audit worker persist event failed: entity=%s id=%d err=%v", event.Entity, event.EntityID, err)
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *AuditWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
