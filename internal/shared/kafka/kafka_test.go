package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestNewWriterSplitsBrokers(t *testing.T) {
	w := NewWriter("a:9092,b:9092", "bet_slip_submitted")

	assert.Equal(t, "bet_slip_submitted", w.Topic)
	assert.Equal(t, "tcp", w.Addr.Network())
	assert.Contains(t, w.Addr.String(), "a:9092")
	assert.IsType(t, &kafka.Hash{}, w.Balancer)
}
