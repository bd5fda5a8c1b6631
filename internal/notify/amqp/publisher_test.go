package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homebase-go/internal/domain/household"
	"homebase-go/pkg/logger"
)

type recordingChannel struct {
	exchange string
	key      string
	msgs     []amqp091.Publishing
	err      error
	closed   bool
}

func (c *recordingChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("publish without deadline")
	}
	c.exchange = exchange
	c.key = key
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recordingChannel) Close() error {
	c.closed = true
	return nil
}

func testEvent() household.InviteEvent {
	return household.InviteEvent{
		InviteID:    "inv-1",
		UserID:      "user-b",
		HouseholdID: "h-1",
		InvitedBy:   "a@example.com",
		IssuedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInviteIssuedPublishesJSON(t *testing.T) {
	ch := &recordingChannel{}
	p := &Publisher{channel: ch, exchange: "homebase", routingKey: "invite.issued", log: logger.Nop()}

	require.NoError(t, p.InviteIssued(context.Background(), testEvent()))

	require.Len(t, ch.msgs, 1)
	msg := ch.msgs[0]
	assert.Equal(t, "homebase", ch.exchange)
	assert.Equal(t, "invite.issued", ch.key)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp091.Persistent, msg.DeliveryMode)
	assert.Equal(t, "inv-1", msg.MessageId)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, "h-1", body["household_id"])
	assert.Equal(t, "user-b", body["user_id"])
	assert.Equal(t, "a@example.com", body["invited_by"])
	assert.Equal(t, "2026-03-01T12:00:00Z", body["issued_at"])
}

func TestInviteIssuedWrapsPublishError(t *testing.T) {
	ch := &recordingChannel{err: amqp091.ErrClosed}
	p := &Publisher{channel: ch, exchange: "homebase", routingKey: "invite.issued", log: logger.Nop()}

	err := p.InviteIssued(context.Background(), testEvent())
	assert.ErrorIs(t, err, amqp091.ErrClosed)
	assert.ErrorContains(t, err, "inv-1")
}

func TestCloseWithoutConnection(t *testing.T) {
	ch := &recordingChannel{}
	p := &Publisher{channel: ch}

	assert.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
