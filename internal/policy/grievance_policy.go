// Package policy decides who may act on a grievance.
package policy

import "github.com/workforce-portal/grievance-service/internal/domain"

// Reason explains a denied decision.
type Reason string

const (
	ReasonHROnly              Reason = "HR_ONLY"
	ReasonNotDepartmentOwner  Reason = "NOT_DEPARTMENT_OWNER"
	ReasonNotSubmitterOrStaff Reason = "NOT_SUBMITTER_OR_STAFF"
	ReasonGrievanceClosed     Reason = "GRIEVANCE_CLOSED"
	ReasonInvalidStatus       Reason = "INVALID_STATUS"
)

// Decision is the outcome of a policy check. Reason is empty when Allowed.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason Reason) Decision { return Decision{Reason: reason} }

// ListScope selects which grievances a listing returns.
type ListScope string

const (
	ScopeOwn        ListScope = "own"
	ScopeDepartment ListScope = "department"
	ScopeAllHR      ListScope = "all-hr"
)

// IsValid reports whether s is a known scope.
func (s ListScope) IsValid() bool {
	return s == ScopeOwn || s == ScopeDepartment || s == ScopeAllHR
}

// CanView allows the submitter and any official or HR staff member.
// Officials are not restricted to their own department here; department scoping is
// applied by the department listing instead.
func CanView(actor domain.Actor, g *domain.Grievance) Decision {
	if isSubmitter(actor, g) || actor.Role.IsStaff() {
		return allow()
	}
	return deny(ReasonNotSubmitterOrStaff)
}

// CanReply allows the submitter, officials and HR while the grievance is open.
func CanReply(actor domain.Actor, g *domain.Grievance) Decision {
	if g.IsClosed() {
		return deny(ReasonGrievanceClosed)
	}
	if isSubmitter(actor, g) || actor.Role.IsStaff() {
		return allow()
	}
	return deny(ReasonNotSubmitterOrStaff)
}

// CanChangeStatus gates status transitions on the grievance's department.
// HR-class grievances need HR or an HR-class official. Other grievances also accept
// an official of the same department. Whether the grievance may still move is
// decided by Grievance.TransitionTo.
func CanChangeStatus(actor domain.Actor, g *domain.Grievance, target domain.GrievanceStatus) Decision {
	if !target.IsValid() {
		return deny(ReasonInvalidStatus)
	}

	if domain.IsHRDepartment(g.Department) {
		if actor.Role != domain.RoleHR && !actor.IsHROfficial() {
			return deny(ReasonHROnly)
		}
	} else if !canManageDepartment(actor, g.Department) {
		return deny(ReasonNotDepartmentOwner)
	}
	return allow()
}

// CanListScope decides whether actor may list grievances in scope.
func CanListScope(actor domain.Actor, scope ListScope) Decision {
	switch scope {
	case ScopeOwn:
		return allow()
	case ScopeDepartment:
		if actor.Role.IsStaff() {
			return allow()
		}
		return deny(ReasonNotSubmitterOrStaff)
	case ScopeAllHR:
		if actor.Role == domain.RoleHR || actor.IsHROfficial() {
			return allow()
		}
		return deny(ReasonHROnly)
	}
	return deny(ReasonNotSubmitterOrStaff)
}

func canManageDepartment(actor domain.Actor, department string) bool {
	switch actor.Role {
	case domain.RoleHR:
		return true
	case domain.RoleOfficial:
		return actor.IsHROfficial() || domain.SameDepartment(actor.Department, department)
	}
	return false
}

func isSubmitter(actor domain.Actor, g *domain.Grievance) bool {
	return actor.ID != "" && actor.ID == g.SubmitterID
}
