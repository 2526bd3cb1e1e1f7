package kafka_test

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/bookstore-service/pkg/kafka"
)

func TestEnqueuer_Enqueue(t *testing.T) {
	t.Parallel()
	producer := mocks.NewSyncProducer(t, nil)
	defer func() { require.NoError(t, producer.Close()) }()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got map[string]any
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		require.Equal(t, "book.created", got["type"])
		return nil
	})
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	enq := kafka.NewEnqueuer(producer)
	require.NoError(t, enq.Enqueue("store.events", 1, map[string]any{"type": "book.created"}))
	err := enq.Enqueue("store.events", 1, map[string]any{"type": "book.deleted"})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)

	require.Error(t, enq.Enqueue("store.events", 1, func() {}))
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()
	require.False(t, kafka.Config{}.Enabled())
	require.True(t, kafka.Config{Addrs: []string{"localhost:9092"}}.Enabled())
}
