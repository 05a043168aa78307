package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
				// 所有内置角色都继承此角色，自助改密对全员开放
				{Object: "/admin/password", Action: "PUT"},
			},
			Immutable: true,
		},
		{
			Role:     "program_manager",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/businesses", Action: "*"},
				{Object: "/admin/businesses/:id", Action: "*"},
				{Object: "/admin/businesses/:id/program", Action: "*"},
				{Object: "/admin/rewards", Action: "*"},
				{Object: "/admin/rewards/:id", Action: "*"},
				{Object: "/admin/codes", Action: "*"},
				{Object: "/admin/codes/:id", Action: "*"},
				{Object: "/admin/codes/generate", Action: "POST"},
				{Object: "/admin/codes/export", Action: "GET"},
				{Object: "/admin/qrcodes", Action: "*"},
				{Object: "/admin/qrcodes/:id", Action: "*"},
				{Object: "/admin/settings", Action: "*"},
			},
			Immutable: true,
		},
		{
			Role:     "front_desk",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/customers", Action: "GET"},
				{Object: "/admin/customers/:id", Action: "GET"},
				{Object: "/admin/customers/:id/points", Action: "POST"},
				{Object: "/admin/codes", Action: "GET"},
				{Object: "/admin/codes/:id", Action: "PUT"},
			},
			Immutable: true,
		},
		{
			Role:     "analyst",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/dashboard/overview", Action: "GET"},
				{Object: "/admin/dashboard/trends", Action: "GET"},
				{Object: "/admin/dashboard/top-rewards", Action: "GET"},
				{Object: "/admin/transactions", Action: "GET"},
				{Object: "/admin/codes/export", Action: "GET"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
