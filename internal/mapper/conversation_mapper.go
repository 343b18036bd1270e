package mapper

import (
	"encoding/json"
	"time"

	"chowbot-be/internal/entity"
	"chowbot-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var selected *entity.SelectedItem
	if len(c.SelectedItem) > 0 {
		var s entity.SelectedItem
		if err := json.Unmarshal(c.SelectedItem, &s); err == nil && s.ItemId != "" {
			selected = &s
		}
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conversation{
		Id:              c.Id,
		SessionId:       c.SessionId,
		DeviceId:        c.DeviceId,
		CurrentStep:     entity.Step(c.CurrentStep),
		CurrentCategory: c.CurrentCategory,
		SelectedItem:    selected,
		CustomerEmail:   c.CustomerEmail,
		IsActive:        c.IsActive,
		LastActivity:    c.LastActivity,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *ConversationMapper) ToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var selected []byte
	if c.SelectedItem != nil {
		selected, _ = json.Marshal(c.SelectedItem)
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conversation{
		Id:              c.Id,
		SessionId:       c.SessionId,
		DeviceId:        c.DeviceId,
		CurrentStep:     string(c.CurrentStep),
		CurrentCategory: c.CurrentCategory,
		SelectedItem:    selected,
		CustomerEmail:   c.CustomerEmail,
		IsActive:        c.IsActive,
		LastActivity:    c.LastActivity,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}
