package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qs3c/blog_server/internal/pkg/pubsub"
)

// Sink 事件接收方，ws.Hub 实现
type Sink interface {
	Publish(ctx context.Context, event *pubsub.Event) error
}

// Relay 把 Redis 频道上的资源事件转发给 websocket 连接
type Relay struct {
	sub        *pubsub.Subscriber
	sink       Sink
	log        logrus.FieldLogger
	retryDelay time.Duration
}

// NewRelay 创建事件转发器
func NewRelay(sub *pubsub.Subscriber, sink Sink, log logrus.FieldLogger) *Relay {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Relay{
		sub:        sub,
		sink:       sink,
		log:        log,
		retryDelay: 2 * time.Second,
	}
}

// Run 阻塞直到 ctx 取消，订阅断开后按 retryDelay 重连
func (r *Relay) Run(ctx context.Context) {
	r.log.Info("event relay started")

	for {
		err := r.sub.Subscribe(ctx, func(event *pubsub.Event) {
			if err := r.sink.Publish(ctx, event); err != nil {
				r.log.WithError(err).WithFields(logrus.Fields{
					"resource": event.Resource,
					"action":   event.Action,
					"id":       event.ID,
				}).Warn("failed to relay event")
			}
		})

		if ctx.Err() != nil {
			r.log.Info("event relay shutting down")
			return
		}
		r.log.WithError(err).Warn("event subscription lost, reconnecting")

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.retryDelay):
		}
	}
}
