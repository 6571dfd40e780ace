// Package kafka publica los eventos de stock en un tópico de Kafka con sarama.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
	"github.com/jhoicas/stockbill-api/pkg/config"
	"github.com/jhoicas/stockbill-api/pkg/logger"
)

var _ ports.StockEventPublisher = (*Producer)(nil)

// Producer productor síncrono: cada lote se confirma con acks de todas las réplicas.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewProducer conecta con los brokers configurados.
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("kafka: crear productor: %w", err)
	}
	return NewProducerWith(producer, cfg.Topic), nil
}

// NewProducerWith usa un sarama.SyncProducer ya construido (por ejemplo el mock de sarama en tests).
func NewProducerWith(producer sarama.SyncProducer, topic string) *Producer {
	return &Producer{producer: producer, topic: topic, log: logger.Component("kafka")}
}

// PublishStockUpdated envía los eventos en un solo lote. La clave es el product_id
// para que los eventos de un mismo producto queden ordenados en su partición.
func (p *Producer) PublishStockUpdated(_ context.Context, events []ports.StockEvent) {
	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			p.log.Error().Err(err).Msg("serializar evento de stock")
			continue
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic:     p.topic,
			Key:       sarama.StringEncoder(ev.ProductID),
			Value:     sarama.ByteEncoder(data),
			Timestamp: ev.OccurredAt,
			Headers: []sarama.RecordHeader{
				{Key: []byte("event_type"), Value: []byte(ev.Type)},
				{Key: []byte("user_id"), Value: []byte(ev.UserID)},
			},
		})
	}
	if len(msgs) == 0 {
		return
	}

	start := time.Now()
	if err := p.producer.SendMessages(msgs); err != nil {
		p.log.Error().Err(err).Int("events", len(msgs)).Msg("publicar eventos de stock")
		return
	}
	p.log.Debug().Int("events", len(msgs)).Dur("took", time.Since(start)).Str("topic", p.topic).Msg("eventos publicados")
}

// Close cierra el productor.
func (p *Producer) Close() error {
	return p.producer.Close()
}
