package auth

const (
	RoleAnalyst    = "analyst"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

const (
	PermCompaniesRead  = "companies.read"
	PermCompaniesWrite = "companies.write"
	PermWorkersRead    = "workers.read"
	PermWorkersWrite   = "workers.write"
	PermConceptsRead   = "concepts.read"
	PermConceptsWrite  = "concepts.write"
	PermParamsRead     = "params.read"
	PermParamsWrite    = "params.write"
	PermPeriodsRead    = "periods.read"
	PermPeriodsWrite   = "periods.write"
	PermLoansRead      = "loans.read"
	PermLoansWrite     = "loans.write"
	PermRunsRead       = "runs.read"
	PermRunsCompute    = "runs.compute"
	PermRunsClose      = "runs.close"
	PermExportsRead    = "exports.read"
	PermAuditRead      = "audit.read"
	PermUsersManage    = "users.manage"
)

// RolePermissions is the static grant grid. Analysts prepare and compute the
// month, supervisors additionally close and reopen it, admins manage users.
var RolePermissions = map[string][]string{
	RoleAnalyst: {
		PermCompaniesRead,
		PermWorkersRead,
		PermWorkersWrite,
		PermConceptsRead,
		PermConceptsWrite,
		PermParamsRead,
		PermParamsWrite,
		PermPeriodsRead,
		PermPeriodsWrite,
		PermLoansRead,
		PermLoansWrite,
		PermRunsRead,
		PermRunsCompute,
		PermExportsRead,
	},
	RoleSupervisor: {
		PermCompaniesRead,
		PermCompaniesWrite,
		PermWorkersRead,
		PermWorkersWrite,
		PermConceptsRead,
		PermConceptsWrite,
		PermParamsRead,
		PermParamsWrite,
		PermPeriodsRead,
		PermPeriodsWrite,
		PermLoansRead,
		PermLoansWrite,
		PermRunsRead,
		PermRunsCompute,
		PermRunsClose,
		PermExportsRead,
		PermAuditRead,
	},
}

// Allowed reports whether the role grants the permission. Admin passes every
// check.
func Allowed(role, permission string) bool {
	if role == RoleAdmin {
		return true
	}
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	switch role {
	case RoleAnalyst, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}
