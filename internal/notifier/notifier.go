package notifier

import "context"

// Notification 发送给所有者的通知
type Notification struct {
	Title   string
	Content string
}

// Notifier 所有者通知通道
type Notifier interface {
	Notify(ctx context.Context, n *Notification) error
}

// NopNotifier 未配置通知渠道时的空实现
type NopNotifier struct{}

func (NopNotifier) Notify(ctx context.Context, n *Notification) error {
	return nil
}
