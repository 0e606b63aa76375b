package infra

import "github.com/casbin/casbin/v2"

// NewEnforcer loads the RBAC model from disk; policies are loaded per branch
// by the rbac service at request time.
func NewEnforcer(modelPath string) (*casbin.Enforcer, error) {
	return casbin.NewEnforcer(modelPath)
}
