package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/VentasCampo-api/internal/application/fulfillment"
	"github.com/jhoicas/VentasCampo-api/internal/domain/entity"
	"github.com/jhoicas/VentasCampo-api/pkg/logger"
)

const (
	eventOrderCreated       = "orders.created"
	eventOrderStatusChanged = "orders.status.changed"

	producerName = "ventas-campo-api"
)

// envelope sobre estándar de todos los eventos publicados. El payload varía por tipo.
type envelope struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	EventVersion string    `json:"event_version"`
	OccurredAt   time.Time `json:"occurred_at"`
	Producer     string    `json:"producer"`
	Payload      any       `json:"payload"`
}

type orderCreatedPayload struct {
	TenantID    string `json:"tenant_id"`
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	TotalAmount string `json:"total_amount"`
}

type orderStatusChangedPayload struct {
	TenantID string `json:"tenant_id"`
	OrderID  string `json:"order_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

var _ fulfillment.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher publica eventos de pedidos en Kafka. El writer es asíncrono con
// buffer interno: Publish encola y retorna; las fallas de entrega solo se loguean,
// nunca afectan la transacción SQL ya confirmada.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewKafkaPublisher construye el publicador. La clave de partición es el ID del
// pedido, así todos los eventos de un pedido conservan su orden relativo.
func NewKafkaPublisher(brokers []string, topic string, log *logger.Logger) *KafkaPublisher {
	p := &KafkaPublisher{log: log}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        true,
		BatchTimeout: 50 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				p.log.Error().Err(err).Int("mensajes", len(messages)).Msg("entrega de eventos a kafka falló")
			}
		},
	}
	return p
}

func (p *KafkaPublisher) OrderCreated(tenantID, orderID, orderNumber, totalAmount string) {
	p.publish(eventOrderCreated, orderID, orderCreatedPayload{
		TenantID:    tenantID,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		TotalAmount: totalAmount,
	})
}

func (p *KafkaPublisher) OrderStatusChanged(tenantID, orderID string, from, to entity.OrderStatus) {
	p.publish(eventOrderStatusChanged, orderID, orderStatusChangedPayload{
		TenantID: tenantID,
		OrderID:  orderID,
		From:     string(from),
		To:       string(to),
	})
}

func (p *KafkaPublisher) publish(eventType, key string, payload any) {
	env := envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: "1.0",
		OccurredAt:   time.Now().UTC(),
		Producer:     producerName,
		Payload:      payload,
	}
	body, err := json.Marshal(env)
	if err != nil {
		p.log.Error().Err(err).Str("tipo", eventType).Msg("no se pudo serializar evento")
		return
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
		},
	}
	// Con Async=true WriteMessages solo encola; el error real llega por Completion.
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		p.log.Error().Err(err).Str("tipo", eventType).Msg("no se pudo encolar evento")
	}
}

// Close vacía el buffer pendiente y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

var _ fulfillment.EventPublisher = NoopPublisher{}

// NoopPublisher descarta todos los eventos. Se usa cuando KAFKA_BROKERS no está
// configurado (entornos locales o de prueba).
type NoopPublisher struct{}

func (NoopPublisher) OrderCreated(tenantID, orderID, orderNumber, totalAmount string) {}

func (NoopPublisher) OrderStatusChanged(tenantID, orderID string, from, to entity.OrderStatus) {}
