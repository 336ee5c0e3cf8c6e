package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/workforce-portal/grievance-service/internal/config"
	"github.com/workforce-portal/grievance-service/internal/events"
)

// Publisher forwards serialized events to an external channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// NotificationService fans grievance events out to the notification channel.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGrievanceCreated, n.handle)
	n.dispatcher.Subscribe(events.EventGrievanceStatusChanged, n.handle)
	n.dispatcher.Subscribe(events.EventGrievanceReplyAdded, n.handle)
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info("grievance event",
		zap.String("event_type", string(event.Type)),
		zap.String("grievance_id", event.GrievanceID),
		zap.String("actor_id", event.Actor.ID))

	channel := strings.TrimSpace(n.cfg.RedisChannel)
	if n.publisher == nil || channel == "" {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, channel, payload); err != nil {
		n.logger.Warn("notification publish failed",
			zap.String("channel", channel),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}
	return nil
}
