// Package policy decides which workshop roles may perform which operations.
//
// Permissions have the form "resource:action" and support the "*" wildcard
// on either side. Every role maps to a fixed Profile; a Gate resolves the
// acting user to a role through a ProfileResolver and checks the profile.
package policy

import "strings"

// Action is the verb half of a permission.
type Action string

const (
	ActionView       Action = "view"
	ActionList       Action = "list"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionTransition Action = "transition"
	ActionGenerate   Action = "generate"
	ActionViewAll    Action = "view_all"
)

// Resource types guarded by the gate.
const (
	ResourceProduct     = "product"
	ResourceJobCard     = "job_card"
	ResourceInvoice     = "invoice"
	ResourceUser        = "user"
	ResourceActivityLog = "activity_log"
	ResourceReport      = "report"
)

// Permission represents an allowed action on a resource type.
// Format: "resource:action" (e.g., "product:create", "invoice:generate").
type Permission string

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Wildcards for super permissions.
const WildcardAll = "*"

const (
	WildcardAction Action     = WildcardAll
	PermissionAll  Permission = "*:*"
)

// Matches checks if this permission grants the requested one.
// "*:*" matches everything, "product:*" matches every product action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionAll || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, reqAct := requested.Parse()
	if res == "" || reqRes == "" {
		return false
	}
	return (res == reqRes || res == WildcardAll) && (act == reqAct || string(act) == WildcardAll)
}
