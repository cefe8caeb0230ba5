package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

type NatsPublisher struct {
	conn    *nats.Conn
	subject string
	logger  *zap.Logger
}

func NewNatsPublisher(url, subject string, logger *zap.Logger) (*NatsPublisher, error) {
	p := &NatsPublisher{
		subject: subject,
		logger:  logger.Named("events"),
	}

	conn, err := nats.Connect(
		url,
		nats.Name("linkhub-quota"),
		nats.ReconnectHandler(p.reconnectHandler),
		nats.DisconnectErrHandler(p.disconnectHandler),
	)
	if err != nil {
		return nil, err
	}
	p.conn = conn

	return p, nil
}

func (p *NatsPublisher) reconnectHandler(nc *nats.Conn) {
	p.logger.Info("got reconnected", zap.String("url", nc.ConnectedUrl()))
}

func (p *NatsPublisher) disconnectHandler(_ *nats.Conn, err error) {
	p.logger.Error("got disconnected", zap.Error(err))
}

// Subject is the per-type subject an event is published on, e.g. "linkhub.quota.credit.consumed".
func (p *NatsPublisher) Subject(t Type) string {
	return fmt.Sprintf("%s.%s", p.subject, t)
}

func (p *NatsPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.conn.Publish(p.Subject(ev.Type), data)
}

func (p *NatsPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
