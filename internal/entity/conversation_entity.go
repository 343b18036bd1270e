package entity

import (
	"time"

	"github.com/google/uuid"
)

// Step is the conversation state machine position. The machine never halts;
// every completed flow cycles back to StepMainMenu.
type Step string

const (
	StepMainMenu      Step = "main_menu"
	StepBrowsingMenu  Step = "browsing_menu"
	StepSelectingItem Step = "selecting_item"
	StepAwaitingEmail Step = "awaiting_email"
)

// SelectedItem is a value snapshot of a catalog item taken at selection time.
// The cart commit must use the price/description as they were when the user
// picked the item, never a live catalog reference.
type SelectedItem struct {
	ItemId      string `json:"item_id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Conversation is the per-session chat record. CurrentCategory is set iff the
// step is browsing_menu; SelectedItem is set iff the step is selecting_item.
type Conversation struct {
	Id              uuid.UUID
	SessionId       string
	DeviceId        string
	CurrentStep     Step
	CurrentCategory *string
	SelectedItem    *SelectedItem
	CustomerEmail   *string
	IsActive        bool
	LastActivity    time.Time
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// ResetToMainMenu clears step-local state. The customer email survives; it is
// account data, not browse context.
func (c *Conversation) ResetToMainMenu() {
	c.CurrentStep = StepMainMenu
	c.CurrentCategory = nil
	c.SelectedItem = nil
}
