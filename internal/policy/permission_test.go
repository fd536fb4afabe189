package policy_test

import (
	"testing"

	"github.com/diewo77/go-workshop/internal/policy"
)

func TestPermission_Parse(t *testing.T) {
	res, act := policy.Permission("invoice:generate").Parse()
	if res != "invoice" || act != policy.ActionGenerate {
		t.Errorf("Parse() = %q, %q", res, act)
	}
	res, act = policy.Permission("garbage").Parse()
	if res != "" || act != "" {
		t.Errorf("expected empty parse for malformed permission, got %q, %q", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	tests := []struct {
		name      string
		granted   policy.Permission
		requested policy.Permission
		want      bool
	}{
		{"exact", "product:create", "product:create", true},
		{"different action", "product:create", "product:delete", false},
		{"different resource", "product:create", "invoice:create", false},
		{"resource wildcard", "invoice:*", "invoice:generate", true},
		{"resource wildcard other resource", "invoice:*", "product:view", false},
		{"superadmin", policy.PermissionAll, "user:delete", true},
		{"action wildcard across resources", "*:view", "job_card:view", true},
		{"malformed never matches", "product", "product:view", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.granted.Matches(tt.requested); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}
