package events

import (
	"encoding/json"
	"time"
)

// ExpenseEvent is the payload for expense.created/updated/deleted messages.
type ExpenseEvent struct {
	GroupID   string `json:"group_id"`
	ExpenseID string `json:"expense_id"`
	Timestamp int64  `json:"timestamp"`
}

// SettlementEvent is the payload for settlement.recorded messages. The amount
// is serialized as a string to preserve decimal precision on the wire.
type SettlementEvent struct {
	GroupID      string `json:"group_id"`
	SettlementID string `json:"settlement_id"`
	From         string `json:"from"`
	To           string `json:"to"`
	Amount       string `json:"amount"`
	Timestamp    int64  `json:"timestamp"`
}

// NewExpenseEvent builds an expense event stamped with the current time.
func NewExpenseEvent(groupID, expenseID string) ExpenseEvent {
	return ExpenseEvent{
		GroupID:   groupID,
		ExpenseID: expenseID,
		Timestamp: time.Now().Unix(),
	}
}

// ToJSON serializes the message for publishing.
func (m ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ToJSON serializes the message for publishing.
func (m SettlementEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
