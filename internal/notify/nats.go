package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"atlas/pkg/log"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const subjectPrefix = "atlas.outcomes."

// NATSSink 发布到 atlas.outcomes.<entity>
type NATSSink struct {
	nc *nats.Conn
}

func NewNATSSink(url string, logger *log.Logger) (*NATSSink, error) {
	nc, err := nats.Connect(url,
		nats.Name("atlas"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NATSSink{nc: nc}, nil
}

func (s *NATSSink) Name() string { return "nats" }

func Subject(o *Outcome) string {
	entity := o.Entity
	if entity == "" {
		entity = "platform"
	}
	return subjectPrefix + entity
}

func (s *NATSSink) Send(ctx context.Context, o *Outcome) error {
	if s.nc == nil || s.nc.IsClosed() {
		return fmt.Errorf("nats not connected")
	}
	payload, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.nc.Publish(Subject(o), payload)
}

func (s *NATSSink) Close() {
	if s.nc != nil {
		_ = s.nc.Drain()
	}
}

// RelayToHub 订阅其它进程发布的 Outcome 并推给本进程的 websocket 订阅者
func RelayToHub(url string, logger *log.Logger, hub *Hub) (func(), error) {
	nc, err := nats.Connect(url, nats.Name("atlas-relay"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	sub, err := nc.Subscribe(subjectPrefix+">", func(msg *nats.Msg) {
		var o Outcome
		if err := json.Unmarshal(msg.Data, &o); err != nil {
			logger.Warn("drop malformed outcome", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		_ = hub.Send(context.Background(), &o)
	})
	if err != nil {
		nc.Close()
		return nil, err
	}
	return func() {
		_ = sub.Unsubscribe()
		nc.Close()
	}, nil
}
