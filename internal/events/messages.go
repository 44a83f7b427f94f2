package events

import (
	"encoding/json"
	"time"
)

// Actions carried by expense events.
const (
	ActionCreated = "expense.created"
	ActionUpdated = "expense.updated"
	ActionDeleted = "expense.deleted"
)

// ExpenseEvent is a lightweight notification about a change to an expense.
// It carries only identifiers; consumers fetch details themselves if they
// need them.
type ExpenseEvent struct {
	Action    string    `json:"action"`
	ExpenseID int64     `json:"expense_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewExpenseEvent builds an event stamped with the current time.
func NewExpenseEvent(action string, expenseID, userID int64) *ExpenseEvent {
	return &ExpenseEvent{
		Action:    action,
		ExpenseID: expenseID,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *ExpenseEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ExpenseEventFromJSON parses an event from JSON bytes. The server only
// publishes; this is the decode half for out-of-process queue consumers.
func ExpenseEventFromJSON(data []byte) (*ExpenseEvent, error) {
	var e ExpenseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
