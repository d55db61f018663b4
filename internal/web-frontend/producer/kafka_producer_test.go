package producer

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radieske/sports-bet-web/pkg/contracts/events"
)

type captureWriter struct{ msgs []kafka.Message }

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestRecordSubmission(t *testing.T) {
	bs, ss := &captureWriter{}, &captureWriter{}
	p := NewKafkaPublisher(bs, ss)

	require.NoError(t, p.RecordSubmission(context.Background(), events.BetSlipSubmitted{
		SessionID: "sid-1", ItemID: "1-Match Winner-Arsenal", Stake: "10", Success: true,
	}))

	require.Len(t, bs.msgs, 1)
	assert.Empty(t, ss.msgs)
	assert.Equal(t, "sid-1", string(bs.msgs[0].Key))

	var got events.BetSlipSubmitted
	require.NoError(t, json.Unmarshal(bs.msgs[0].Value, &got))
	assert.Equal(t, "1-Match Winner-Arsenal", got.ItemID)
	assert.NotZero(t, got.TsUnixMs)
}

func TestPublishSessionEvent(t *testing.T) {
	bs, ss := &captureWriter{}, &captureWriter{}
	p := NewKafkaPublisher(bs, ss)

	require.NoError(t, p.PublishSessionEvent(context.Background(), events.SessionExpired, "sid-1", "", "expired"))

	require.Len(t, ss.msgs, 1)
	var got events.SessionEvent
	require.NoError(t, json.Unmarshal(ss.msgs[0].Value, &got))
	assert.Equal(t, events.SessionExpired, got.Type)
	assert.Equal(t, "expired", got.Reason)
	assert.NotEmpty(t, got.EventID)
}
