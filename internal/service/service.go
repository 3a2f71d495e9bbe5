package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/qs3c/blog_server/internal/pkg/metrics"
	"github.com/qs3c/blog_server/internal/pkg/pubsub"
)

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrRoleNotFound    = errors.New("角色不存在")
	ErrPostNotFound    = errors.New("文章不存在")
	ErrCommentNotFound = errors.New("评论不存在")
	ErrRatingNotFound  = errors.New("评分不存在")
)

// IsNotFound 是否为资源不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrRoleNotFound) ||
		errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrRatingNotFound)
}

// notFound 把 gorm 的未找到错误换成资源的哨兵错误
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// 事件中的资源名
const (
	ResourceUser       = "user"
	ResourceRole       = "role"
	ResourcePost       = "post"
	ResourceComment    = "comment"
	ResourceUserRating = "user_rating"
)

// EventPublisher 资源事件发布，Redis 发布者与 ws.Hub 均实现
type EventPublisher interface {
	Publish(ctx context.Context, event *pubsub.Event) error
}

// Notifier 发布资源事件，失败只记日志，不影响请求结果
type Notifier struct {
	pub EventPublisher
	log logrus.FieldLogger
}

// NewNotifier pub 为 nil 时不发布
func NewNotifier(pub EventPublisher, log logrus.FieldLogger) *Notifier {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Notifier{pub: pub, log: log}
}

func (n *Notifier) notify(ctx context.Context, resource, action string, ids ...int64) {
	if n == nil || n.pub == nil {
		return
	}
	for _, id := range ids {
		err := n.pub.Publish(ctx, pubsub.NewEvent(resource, action, id))
		metrics.RecordEvent(resource, action, err == nil)
		if err != nil {
			n.log.WithError(err).WithFields(logrus.Fields{
				"resource": resource,
				"action":   action,
				"id":       id,
			}).Warn("failed to publish resource event")
		}
	}
}
