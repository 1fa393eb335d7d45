package domain

// Action names a capability checked by the authorization policy before any
// engine mutation.
type Action string

const (
	ActionRequestAdvance Action = "advance:request"
	ActionApproveAdvance Action = "advance:approve"
	ActionRejectAdvance  Action = "advance:reject"
	ActionSettleAdvance  Action = "advance:settle"
	ActionSubmitExpense  Action = "expense:submit"
	ActionApproveExpense Action = "expense:approve"
	ActionRejectExpense  Action = "expense:reject"
	ActionSetEditable    Action = "expense:set_editable"
	ActionReviseExpense  Action = "expense:revise"
	ActionArchiveProject Action = "project:archive"
	ActionManageProjects Action = "project:manage"
	ActionManageUsers    Action = "user:manage"
)
