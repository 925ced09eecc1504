package kafka

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	messages []kafka.Message
	next     int
	closed   bool
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if f.next >= len(f.messages) {
		return kafka.Message{}, io.EOF
	}
	msg := f.messages[f.next]
	f.next++
	return msg, nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestConsumer_Consume_HandlerErrorDoesNotStopConsumption(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Offset: 1, Value: []byte("first")},
		{Offset: 2, Value: []byte("second")},
	}}
	consumer := &Consumer{reader: reader}

	var seen []int64
	err := consumer.Consume(context.Background(), func(ctx context.Context, msg kafka.Message) error {
		seen = append(seen, msg.Offset)
		if msg.Offset == 1 {
			return errors.New("mailbox full")
		}
		return nil
	})

	// The reader running dry ends the loop; the failed first message did not.
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestConsumer_Close(t *testing.T) {
	reader := &fakeReader{}
	consumer := &Consumer{reader: reader}

	assert.NoError(t, consumer.Close())
	assert.True(t, reader.closed)

	var nilConsumer *Consumer
	assert.NoError(t, nilConsumer.Close())
}
