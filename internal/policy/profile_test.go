package policy_test

import (
	"testing"

	"github.com/diewo77/go-workshop/internal/models"
	"github.com/diewo77/go-workshop/internal/policy"
)

func TestRoleMatrix(t *testing.T) {
	type grant struct {
		resource string
		action   policy.Action
	}
	tests := []struct {
		grant
		owner, admin, worker bool
	}{
		{grant{policy.ResourceProduct, policy.ActionView}, true, true, true},
		{grant{policy.ResourceJobCard, policy.ActionCreate}, true, true, true},
		{grant{policy.ResourceProduct, policy.ActionCreate}, true, true, false},
		{grant{policy.ResourceProduct, policy.ActionUpdate}, true, true, false},
		{grant{policy.ResourceProduct, policy.ActionDelete}, true, false, false},
		{grant{policy.ResourceJobCard, policy.ActionTransition}, true, true, false},
		{grant{policy.ResourceInvoice, policy.ActionGenerate}, true, true, false},
		{grant{policy.ResourceInvoice, policy.ActionView}, true, true, false},
		{grant{policy.ResourceInvoice, policy.ActionUpdate}, true, true, false},
		{grant{policy.ResourceUser, policy.ActionCreate}, true, false, false},
		{grant{policy.ResourceUser, policy.ActionUpdate}, true, false, false},
		{grant{policy.ResourceActivityLog, policy.ActionView}, true, true, true},
		{grant{policy.ResourceActivityLog, policy.ActionViewAll}, true, false, false},
		{grant{policy.ResourceReport, policy.ActionView}, true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.resource+":"+string(tt.action), func(t *testing.T) {
			if got := policy.RoleCan(models.RoleOwner, tt.resource, tt.action); got != tt.owner {
				t.Errorf("owner = %v, want %v", got, tt.owner)
			}
			if got := policy.RoleCan(models.RoleAdmin, tt.resource, tt.action); got != tt.admin {
				t.Errorf("admin = %v, want %v", got, tt.admin)
			}
			if got := policy.RoleCan(models.RoleWorker, tt.resource, tt.action); got != tt.worker {
				t.Errorf("worker = %v, want %v", got, tt.worker)
			}
		})
	}
}

func TestRoleMatrix_Monotonic(t *testing.T) {
	// Every worker permission must be held by admin, and every admin one by owner.
	for _, perm := range policy.ProfileFor(models.RoleWorker).Permissions() {
		if !policy.ProfileFor(models.RoleAdmin).HasPermission(perm) {
			t.Errorf("admin lacks worker permission %s", perm)
		}
	}
	for _, perm := range policy.ProfileFor(models.RoleAdmin).Permissions() {
		if !policy.ProfileFor(models.RoleOwner).HasPermission(perm) {
			t.Errorf("owner lacks admin permission %s", perm)
		}
	}
}

func TestProfileFor_UnknownRole(t *testing.T) {
	if policy.ProfileFor(models.Role("guest")) != nil {
		t.Fatal("unknown role should have no profile")
	}
	if policy.RoleCan(models.Role("guest"), policy.ResourceProduct, policy.ActionView) {
		t.Error("unknown role must not be granted anything")
	}
}
