package model

import (
	"fmt"
	"time"
)

type ActionType string

const (
	ActionCreateRequest ActionType = "create_request"
	ActionCreateOffer   ActionType = "create_offer"
)

var ActionTypes = []ActionType{ActionCreateRequest, ActionCreateOffer}

func ParseActionType(s string) (ActionType, error) {
	for _, a := range ActionTypes {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action type %q", s)
}

func (a ActionType) String() string {
	return string(a)
}

// ServiceRequest is created by an actor directly; it is the record counted for create_request.
type ServiceRequest struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	CreatorID string    `gorm:"index:idx_service_requests_creator_created,priority:1;not null"`
	Title     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_service_requests_creator_created,priority:2;not null"`
}

// Offer is attributed to one of the actor's profiles; it is the record counted for create_offer.
type Offer struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	ProfileID string    `gorm:"index:idx_offers_profile_created,priority:1;not null"`
	RequestID string    `gorm:"index"`
	CreatedAt time.Time `gorm:"index:idx_offers_profile_created,priority:2;not null"`
}
