package service

import (
	"careform-api/internal/domain"
)

// Action names a role-gated operation. Read access is granted by membership
// itself; actions only gate writes and privileged reads.
type Action string

const (
	ActionBusinessUpdate   Action = "business:update"
	ActionBusinessDelete   Action = "business:delete"
	ActionMemberManage     Action = "member:manage"
	ActionClientWrite      Action = "client:write"
	ActionFormWrite        Action = "form:write"
	ActionFormTransition   Action = "form:transition"
	ActionSubmissionCreate Action = "submission:create"
	ActionSubmissionReview Action = "submission:review"
	ActionExportRun        Action = "export:run"
	ActionBillingManage    Action = "billing:manage"
)

// capabilities maps each role to the actions it may perform. Checks go
// through Can so the policy lives in exactly one place.
var capabilities = map[domain.MemberRole]map[Action]bool{
	domain.MemberRoleOwner: {
		ActionBusinessUpdate:   true,
		ActionBusinessDelete:   true,
		ActionMemberManage:     true,
		ActionClientWrite:      true,
		ActionFormWrite:        true,
		ActionFormTransition:   true,
		ActionSubmissionCreate: true,
		ActionSubmissionReview: true,
		ActionExportRun:        true,
		ActionBillingManage:    true,
	},
	domain.MemberRoleManager: {
		ActionMemberManage:     true,
		ActionClientWrite:      true,
		ActionFormWrite:        true,
		ActionFormTransition:   true,
		ActionSubmissionCreate: true,
		ActionSubmissionReview: true,
		ActionExportRun:        true,
	},
	domain.MemberRoleStaff: {
		ActionClientWrite:      true,
		ActionSubmissionCreate: true,
	},
}

// Can reports whether the role may perform the action
func Can(role domain.MemberRole, action Action) bool {
	return capabilities[role][action]
}
