// Package events publishes domain events to RabbitMQ so downstream consumers
// (notifications, analytics) can react to ledger activity without polling.
package events

import (
	"context"

	"github.com/shopspring/decimal"
)

// Routing keys for published events.
const (
	KeyExpenseCreated     = "expense.created"
	KeyExpenseUpdated     = "expense.updated"
	KeyExpenseDeleted     = "expense.deleted"
	KeySettlementRecorded = "settlement.recorded"
)

// Publisher emits domain events. Publishing is best-effort: services log
// failures but never fail a request because an event could not be sent.
type Publisher interface {
	PublishExpenseEvent(ctx context.Context, key, groupID, expenseID string) error
	PublishSettlementRecorded(ctx context.Context, groupID, settlementID, from, to string, amount decimal.Decimal) error
	Close() error
}

// Nop is a Publisher that discards all events; used when AMQP is not configured.
type Nop struct{}

func (Nop) PublishExpenseEvent(context.Context, string, string, string) error {
	return nil
}

func (Nop) PublishSettlementRecorded(context.Context, string, string, string, string, decimal.Decimal) error {
	return nil
}

func (Nop) Close() error { return nil }
