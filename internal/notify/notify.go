// Package notify publishes issued-ticket notifications for the delivery
// collaborator (mailer bot) to consume. Fire-and-forget: the pipeline never
// depends on delivery succeeding.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tonymorry/uniparty/internal/app"
)

// Routing keys on the topic exchange.
const (
	RKTicketIssued = "ticket.issued"
)

type ticketIssuedEvent struct {
	Event      string   `json:"event"`
	Version    int      `json:"version"`
	OrderID    string   `json:"order_id"`
	EventID    string   `json:"event_id"`
	EventName  string   `json:"event_name"`
	BuyerID    string   `json:"buyer_id"`
	Holders    []string `json:"holders"`
	OccurredAt string   `json:"occurred_at,omitempty"`
}

// AMQPNotifier publishes notices to a RabbitMQ topic exchange.
type AMQPNotifier struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPNotifier(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &AMQPNotifier{conn: conn, ch: ch, exchange: exchange}, nil
}

func (n *AMQPNotifier) TicketsIssued(ctx context.Context, notice app.TicketsIssuedNotice) error {
	body, err := json.Marshal(ticketIssuedEvent{
		Event:     RKTicketIssued,
		Version:   1,
		OrderID:   notice.OrderID,
		EventID:   notice.EventID,
		EventName: notice.EventName,
		BuyerID:   notice.BuyerID,
		Holders:   notice.HolderNames,
	})
	if err != nil {
		return err
	}
	return n.ch.PublishWithContext(ctx, n.exchange, RKTicketIssued, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func (n *AMQPNotifier) Close() error {
	if n.ch != nil {
		_ = n.ch.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}

// LogNotifier stands in when no broker is configured.
type LogNotifier struct {
	Logger *log.Logger
}

func (n LogNotifier) TicketsIssued(_ context.Context, notice app.TicketsIssuedNotice) error {
	logger := n.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("tickets issued: order=%s event=%q holders=%d", notice.OrderID, notice.EventName, len(notice.HolderNames))
	return nil
}
