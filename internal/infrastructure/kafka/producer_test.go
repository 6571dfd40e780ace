package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockbill-api/internal/application/ports"
)

func TestPublishStockUpdated_EnviaConClaveDeProducto(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	var got []*sarama.ProducerMessage
	checker := func(msg *sarama.ProducerMessage) error {
		got = append(got, msg)
		return nil
	}
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(checker)
	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(checker)

	p := NewProducerWith(mock, "stock-events")
	p.PublishStockUpdated(context.Background(), []ports.StockEvent{
		{Type: ports.EventStockUpdated, UserID: "u-1", ProductID: "p-1", StockQuantity: 5, OccurredAt: time.Now()},
		{Type: ports.EventStockUpdated, UserID: "u-1", ProductID: "p-2", StockQuantity: 0, OccurredAt: time.Now()},
	})
	require.NoError(t, p.Close())

	require.Len(t, got, 2)
	assert.Equal(t, "stock-events", got[0].Topic)
	key, err := got[0].Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "p-1", string(key))

	raw, err := got[1].Value.Encode()
	require.NoError(t, err)
	var ev ports.StockEvent
	require.NoError(t, json.Unmarshal(raw, &ev))
	assert.Equal(t, "p-2", ev.ProductID)
}

func TestPublishStockUpdated_ErrorNoEntraEnPanico(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	mock.ExpectSendMessageAndFail(errors.New("broker caído"))

	p := NewProducerWith(mock, "stock-events")
	assert.NotPanics(t, func() {
		p.PublishStockUpdated(context.Background(), []ports.StockEvent{{ProductID: "p-1"}})
	})
	require.NoError(t, p.Close())
}

func TestPublishStockUpdated_SinEventosNoEnvia(t *testing.T) {
	mock := mocks.NewSyncProducer(t, nil)
	NewProducerWith(mock, "t").PublishStockUpdated(context.Background(), nil)
	require.NoError(t, mock.Close(), "no debe quedar ninguna expectativa pendiente")
}
