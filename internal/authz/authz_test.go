package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nziladragao/agenda-api/pkg/auth"
)

func claims(role string) *auth.Claims {
	return &auth.Claims{Role: role}
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		name  string
		check func(*auth.Claims) bool
		role  string
		want  bool
	}{
		{"admin manages slots", CanManageSlots, RoleAdmin, true},
		{"staff manages slots", CanManageSlots, RoleStaff, true},
		{"medium manages slots", CanManageSlots, RoleMedium, true},
		{"member cannot manage slots", CanManageSlots, RoleMember, false},

		{"staff books", CanBookFor, RoleStaff, true},
		{"member cannot book", CanBookFor, RoleMember, false},

		{"admin manages clients", CanManageClients, RoleAdmin, true},
		{"staff manages clients", CanManageClients, RoleStaff, true},
		{"medium cannot manage clients", CanManageClients, RoleMedium, false},

		{"medium records outcome", CanRecordOutcome, RoleMedium, true},
		{"staff cannot record outcome", CanRecordOutcome, RoleStaff, false},

		{"staff views queue", CanViewQueue, RoleStaff, true},
		{"medium cannot view queue", CanViewQueue, RoleMedium, false},

		{"unknown role gets member access", CanManageSlots, "visitor", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(claims(tt.role)))
		})
	}
}
