package policy

import (
	"sort"

	"github.com/diewo77/go-workshop/internal/models"
)

// Profile is the permission set attached to a role.
type Profile struct {
	permissions map[Permission]bool
}

// NewProfile creates a profile with the given permissions.
func NewProfile(permissions ...Permission) *Profile {
	p := &Profile{permissions: make(map[Permission]bool, len(permissions))}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

// Permissions returns the granted permissions in sorted order.
func (p *Profile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// HasPermission reports whether any granted permission matches requested.
func (p *Profile) HasPermission(requested Permission) bool {
	if p == nil {
		return false
	}
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

var (
	ownerProfile = NewProfile(PermissionAll)

	adminProfile = NewProfile(
		NewPermission(ResourceProduct, ActionView),
		NewPermission(ResourceProduct, ActionList),
		NewPermission(ResourceProduct, ActionCreate),
		NewPermission(ResourceProduct, ActionUpdate),
		NewPermission(ResourceJobCard, ActionView),
		NewPermission(ResourceJobCard, ActionList),
		NewPermission(ResourceJobCard, ActionCreate),
		NewPermission(ResourceJobCard, ActionUpdate),
		NewPermission(ResourceJobCard, ActionTransition),
		NewPermission(ResourceInvoice, WildcardAction),
		NewPermission(ResourceActivityLog, ActionView),
		NewPermission(ResourceReport, ActionView),
	)

	workerProfile = NewProfile(
		NewPermission(ResourceProduct, ActionView),
		NewPermission(ResourceProduct, ActionList),
		NewPermission(ResourceJobCard, ActionView),
		NewPermission(ResourceJobCard, ActionList),
		NewPermission(ResourceJobCard, ActionCreate),
		NewPermission(ResourceActivityLog, ActionView),
	)
)

// ProfileFor returns the fixed profile of role, or nil for an unknown role.
func ProfileFor(role models.Role) *Profile {
	switch role {
	case models.RoleOwner:
		return ownerProfile
	case models.RoleAdmin:
		return adminProfile
	case models.RoleWorker:
		return workerProfile
	}
	return nil
}

// RoleCan reports whether role is granted action on resourceType.
func RoleCan(role models.Role, resourceType string, action Action) bool {
	return ProfileFor(role).HasPermission(NewPermission(resourceType, action))
}
