package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/radieske/sports-bet-web/pkg/contracts/events"
)

// MessageWriter é o lado de escrita do kafka.Writer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica envios do bet slip e eventos de sessão, cada um no seu tópico
type KafkaPublisher struct {
	BetSlip  MessageWriter
	Sessions MessageWriter
}

func NewKafkaPublisher(betSlip, sessions MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{BetSlip: betSlip, Sessions: sessions}
}

// RecordSubmission usa o sid como chave para manter a ordem por navegador
func (p *KafkaPublisher) RecordSubmission(ctx context.Context, e events.BetSlipSubmitted) error {
	if e.TsUnixMs == 0 {
		e.TsUnixMs = time.Now().UnixMilli()
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.BetSlip.WriteMessages(ctx, kafka.Message{Key: []byte(e.SessionID), Value: b, Time: time.Now()})
}

func (p *KafkaPublisher) PublishSessionEvent(ctx context.Context, typ, sid, userID, reason string) error {
	e := events.SessionEvent{
		EventID:   uuid.NewString(),
		Type:      typ,
		SessionID: sid,
		UserID:    userID,
		Reason:    reason,
		TsUnixMs:  time.Now().UnixMilli(),
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Sessions.WriteMessages(ctx, kafka.Message{Key: []byte(sid), Value: b, Time: time.Now()})
}
