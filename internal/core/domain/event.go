package domain

import "github.com/shopspring/decimal"

// EventKind names a state-changing domain event emitted by the lifecycle,
// approval and settlement engines.
type EventKind string

const (
	EventAdvanceRequested EventKind = "ADVANCE_REQUESTED"
	EventAdvanceApproved  EventKind = "ADVANCE_APPROVED"
	EventAdvanceRejected  EventKind = "ADVANCE_REJECTED"
	EventAdvanceSettled   EventKind = "ADVANCE_SETTLED"
	EventExpenseSubmitted EventKind = "EXPENSE_SUBMITTED"
	EventExpenseApproved  EventKind = "EXPENSE_APPROVED"
	EventExpenseRejected  EventKind = "EXPENSE_REJECTED"
	EventExpenseRevised   EventKind = "EXPENSE_REVISED"
)

// Event describes a completed state change. The notification router turns
// events into persisted notifications; engines never build notifications
// directly.
type Event struct {
	Kind       EventKind
	ActorID    string // user who performed the action
	SubjectID  string // id of the advance or expense acted upon
	ItemType   ItemType
	ProjectID  string
	OwnerID    string // custody holder the record belongs to
	Amount     decimal.Decimal
	Reason     string // rejection reason, when applicable
	Deficit    decimal.Decimal
	HadDeficit bool // settlement outcome, phrases the notification
}
