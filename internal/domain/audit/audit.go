package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionReportUpdate = "report.update"
	ActionReportDelete = "report.delete"
	EntityWorkReport   = "work_report"
)

type Event struct {
	ID         string          `json:"id"`
	ActorEmail string          `json:"actorEmail"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	IP         string          `json:"ip"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type Filter struct {
	Action     string
	EntityType string
	EntityID   string
}

type StoreAPI interface {
	Insert(ctx context.Context, evt Event) error
	List(ctx context.Context, filter Filter, limit int) ([]Event, error)
}

type Service struct {
	Store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) Record(ctx context.Context, actorEmail, action, entityType, entityID, requestID, ip string, before, after any) error {
	evt := Event{
		ActorEmail: actorEmail,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestID,
		IP:         ip,
	}
	var err error
	if evt.Before, err = marshalOptional(before); err != nil {
		return fmt.Errorf("marshal before: %w", err)
	}
	if evt.After, err = marshalOptional(after); err != nil {
		return fmt.Errorf("marshal after: %w", err)
	}
	return s.Store.Insert(ctx, evt)
}

func (s *Service) List(ctx context.Context, filter Filter, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.Store.List(ctx, filter, limit)
}

func marshalOptional(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
