package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/workforce-portal/grievance-service/internal/config"
	"github.com/workforce-portal/grievance-service/internal/domain"
	"github.com/workforce-portal/grievance-service/internal/events"
)

type channelPublisher struct {
	channels []string
	payloads [][]byte
	err      error
}

func (p *channelPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload)
	return nil
}

func TestNotificationServiceForwardsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &channelPublisher{}
	NewNotificationService(dispatcher, pub, nil, config.NotificationConfig{RedisChannel: "grievance-events"}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{
		ID:          "evt-1",
		Type:        events.EventGrievanceStatusChanged,
		GrievanceID: "g-1",
		Actor:       events.ActorFrom(hrActor),
		Timestamp:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Payload: events.GrievanceStatusChangedPayload{
			OldStatus: domain.GrievanceStatusPending,
			NewStatus: domain.GrievanceStatusResolved,
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"grievance-events"}, pub.channels)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	require.Equal(t, "grievance_status_changed", decoded["type"])
	require.Equal(t, "g-1", decoded["grievance_id"])
	payload := decoded["payload"].(map[string]any)
	require.Equal(t, "resolved", payload["new_status"])
}

func TestNotificationServiceWithoutChannelOnlyLogs(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	pub := &channelPublisher{}
	NewNotificationService(dispatcher, pub, nil, config.NotificationConfig{RedisChannel: " "}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{Type: events.EventGrievanceCreated, GrievanceID: "g-1"}))
	require.Empty(t, pub.payloads)
}

func TestNotificationFailureDoesNotFailGrievanceOperation(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, &channelPublisher{err: errors.New("broker down")}, nil,
		config.NotificationConfig{RedisChannel: "grievance-events"}).RegisterHandlers()

	svc := NewGrievanceService(GrievanceDependencies{GrievanceRepo: newMemoryGrievanceRepo(), Dispatcher: dispatcher})
	g, err := svc.CreateGrievance(context.Background(), workerActor, GrievanceCreateInput{Title: "t", Description: "d"})
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)
}
