package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"careform-api/internal/domain"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name     string
		role     domain.MemberRole
		action   Action
		expected bool
	}{
		{"owner updates business", domain.MemberRoleOwner, ActionBusinessUpdate, true},
		{"owner deletes business", domain.MemberRoleOwner, ActionBusinessDelete, true},
		{"owner manages billing", domain.MemberRoleOwner, ActionBillingManage, true},
		{"owner reviews submissions", domain.MemberRoleOwner, ActionSubmissionReview, true},

		{"manager cannot update business", domain.MemberRoleManager, ActionBusinessUpdate, false},
		{"manager cannot delete business", domain.MemberRoleManager, ActionBusinessDelete, false},
		{"manager cannot manage billing", domain.MemberRoleManager, ActionBillingManage, false},
		{"manager manages members", domain.MemberRoleManager, ActionMemberManage, true},
		{"manager writes forms", domain.MemberRoleManager, ActionFormWrite, true},
		{"manager transitions forms", domain.MemberRoleManager, ActionFormTransition, true},
		{"manager reviews submissions", domain.MemberRoleManager, ActionSubmissionReview, true},
		{"manager runs exports", domain.MemberRoleManager, ActionExportRun, true},

		{"staff writes clients", domain.MemberRoleStaff, ActionClientWrite, true},
		{"staff creates submissions", domain.MemberRoleStaff, ActionSubmissionCreate, true},
		{"staff cannot write forms", domain.MemberRoleStaff, ActionFormWrite, false},
		{"staff cannot review submissions", domain.MemberRoleStaff, ActionSubmissionReview, false},
		{"staff cannot run exports", domain.MemberRoleStaff, ActionExportRun, false},
		{"staff cannot manage members", domain.MemberRoleStaff, ActionMemberManage, false},

		{"unknown role denied", domain.MemberRole("AUDITOR"), ActionClientWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Can(tt.role, tt.action))
		})
	}
}
