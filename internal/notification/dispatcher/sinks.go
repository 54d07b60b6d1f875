package dispatcher

import (
	"context"

	"tasko-backend/internal/notification/domain"
	"tasko-backend/pkg/events"
	"tasko-backend/pkg/fcm"
	"tasko-backend/pkg/hub"
	"tasko-backend/pkg/telegram"
)

type sinkFunc struct {
	name    string
	deliver func(ctx context.Context, n *domain.Notification) error
}

func (s sinkFunc) Name() string { return s.name }

func (s sinkFunc) Deliver(ctx context.Context, n *domain.Notification) error {
	return s.deliver(ctx, n)
}

// Title is the headline shown on push and chat messages.
func Title(t domain.NotificationType) string {
	switch t {
	case domain.TypeOverdue:
		return "Task overdue"
	case domain.TypeDueSoon:
		return "Task due soon"
	case domain.TypeActivityChange:
		return "Schedule"
	default:
		return "Reminder"
	}
}

// HubSink broadcasts to live WebSocket clients.
func HubSink(h *hub.Hub) Sink {
	if h == nil {
		return nil
	}
	return sinkFunc{name: "websocket", deliver: func(ctx context.Context, n *domain.Notification) error {
		return h.Broadcast(ctx, hub.Message{Type: "notification", Payload: n})
	}}
}

// FCMSink pushes to the configured FCM topic.
func FCMSink(c *fcm.Client) Sink {
	if c == nil {
		return nil
	}
	return sinkFunc{name: "fcm", deliver: func(ctx context.Context, n *domain.Notification) error {
		data := map[string]string{"notificationId": n.ID, "type": string(n.Type)}
		if n.TaskID != nil {
			data["taskId"] = *n.TaskID
		}
		return c.Send(ctx, fcm.Push{Title: Title(n.Type), Body: n.Message, Data: data})
	}}
}

// TelegramSink posts to the configured chat.
func TelegramSink(t *telegram.Notifier) Sink {
	if t == nil {
		return nil
	}
	return sinkFunc{name: "telegram", deliver: func(ctx context.Context, n *domain.Notification) error {
		return t.Send(ctx, telegram.Format(Title(n.Type), n.Message))
	}}
}

// PubSubSink publishes a notification.created event.
func PubSubSink(p *events.Publisher) Sink {
	if p == nil {
		return nil
	}
	return sinkFunc{name: "pubsub", deliver: func(ctx context.Context, n *domain.Notification) error {
		return p.Publish(ctx, "notification.created", n)
	}}
}
