package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseUpdated = "expense.updated"
	EventTypeExpenseDeleted = "expense.deleted"
)

// ExpenseEventTypes lists the routing keys the AMQP forwarder and worker bind.
var ExpenseEventTypes = []string{
	EventTypeExpenseCreated,
	EventTypeExpenseUpdated,
	EventTypeExpenseDeleted,
}

// ExpenseSnapshot is the record carried by created/updated events. Amount is
// the fixed two-decimal string form.
type ExpenseSnapshot struct {
	ID          int64
	Amount      string
	Category    string
	Date        time.Time
	Description *string
}

type ExpenseChangedEvent struct {
	BaseEvent
	Expense ExpenseSnapshot `json:"-"`
}

func newExpenseChangedEvent(eventType string, snapshot ExpenseSnapshot) *ExpenseChangedEvent {
	var description interface{}
	if snapshot.Description != nil {
		description = *snapshot.Description
	}
	return &ExpenseChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"expense_id":  snapshot.ID,
				"amount":      snapshot.Amount,
				"category":    snapshot.Category,
				"date":        snapshot.Date.Format(time.RFC3339),
				"description": description,
			},
		},
		Expense: snapshot,
	}
}

func NewExpenseCreatedEvent(snapshot ExpenseSnapshot) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseCreated, snapshot)
}

func NewExpenseUpdatedEvent(snapshot ExpenseSnapshot) *ExpenseChangedEvent {
	return newExpenseChangedEvent(EventTypeExpenseUpdated, snapshot)
}

type ExpenseDeletedEvent struct {
	BaseEvent
	ExpenseID int64 `json:"-"`
}

func NewExpenseDeletedEvent(expenseID int64) *ExpenseDeletedEvent {
	return &ExpenseDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseDeleted,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
			},
		},
		ExpenseID: expenseID,
	}
}

// NewEvent builds a generic event, used by the CLI to publish test events.
func NewEvent(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
