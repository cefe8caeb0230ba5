package model

import "time"

type EventType string

const (
	EventTypeQuotaWarningSent EventType = "quota_warning_sent"
)

// AppEvent is a write-once marker; the unique index makes "insert if absent" safe under races.
type AppEvent struct {
	ID         uint       `gorm:"primarykey"`
	ProfileID  string     `gorm:"uniqueIndex:idx_app_events_marker,priority:1;not null"`
	EventType  EventType  `gorm:"uniqueIndex:idx_app_events_marker,priority:2;type:varchar(64);not null"`
	PeriodKey  string     `gorm:"uniqueIndex:idx_app_events_marker,priority:3;type:varchar(7);not null"`
	ActionType ActionType `gorm:"uniqueIndex:idx_app_events_marker,priority:4;type:varchar(32);not null"`
	CreatedAt  time.Time
}

type MarkerKey struct {
	ProfileID  string
	EventType  EventType
	PeriodKey  string
	ActionType ActionType
}

func (k MarkerKey) Event() AppEvent {
	return AppEvent{
		ProfileID:  k.ProfileID,
		EventType:  k.EventType,
		PeriodKey:  k.PeriodKey,
		ActionType: k.ActionType,
	}
}
