// Package access is the pure permission evaluator consulted before every
// mutating operation. It holds a static capability table mapping each
// action to the minimal set of roles allowed to perform it; company
// managers are additionally scoped to their own company.
package access

import (
	"errors"

	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
)

// Actor is an authenticated identity as resolved by the identity
// collaborator: a role plus an optional company affiliation.
type Actor struct {
	UserID    uint
	Role      models.Role
	CompanyID *uint
}

// Action is a guarded operation. The tagged-enum-plus-table design keeps a
// missing guard visible: a new action without a table entry denies
// everything until the table is extended.
type Action string

const (
	ActionCreateDriver      Action = "create-driver"
	ActionChangeDriverState Action = "change-driver-state"
	ActionReview            Action = "review"
	ActionApprove           Action = "approve"
	ActionObserve           Action = "observe"
	ActionEnable            Action = "enable"
	ActionSuspend           Action = "suspend"
	ActionRevoke            Action = "revoke"
	ActionManagePayment     Action = "manage-payment"
	ActionManageUsers       Action = "manage-users"
	ActionViewAudit         Action = "view-audit"
)

// ErrUnaffiliatedManager marks a company-manager account with no company
// set. That is a configuration defect, not a permission outcome.
var ErrUnaffiliatedManager = errors.New("company manager has no company affiliation")

// Evaluator answers permission questions from an immutable capability
// table built once at construction.
type Evaluator struct {
	table map[Action]map[models.Role]bool
}

// NewEvaluator builds the capability table. Global roles bypass company
// scoping; a company manager in the set is always scoped to its own
// company.
func NewEvaluator() *Evaluator {
	grant := func(roles ...models.Role) map[models.Role]bool {
		set := make(map[models.Role]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		return set
	}
	return &Evaluator{table: map[Action]map[models.Role]bool{
		ActionCreateDriver:      grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy, models.RoleOperator, models.RoleCompanyManager),
		ActionChangeDriverState: grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy, models.RoleOperator),
		ActionReview:            grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy, models.RoleOperator),
		ActionApprove:           grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy),
		ActionObserve:           grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy, models.RoleOperator),
		ActionEnable:            grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy),
		ActionSuspend:           grant(models.RoleSuperAdmin, models.RoleDirector),
		ActionRevoke:            grant(models.RoleSuperAdmin, models.RoleDirector),
		ActionManagePayment:     grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy, models.RoleOperator),
		ActionManageUsers:       grant(models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy),
		ActionViewAudit:         grant(models.RoleSuperAdmin, models.RoleDirector),
	}}
}

// CanPerform reports whether actor may run action against an entity of the
// given company. targetCompanyID 0 means the target has no company scope
// (e.g. user administration). The only error is ErrUnaffiliatedManager.
func (e *Evaluator) CanPerform(actor Actor, action Action, targetCompanyID uint) (bool, error) {
	allowed := e.table[action]
	if !allowed[actor.Role] {
		return false, nil
	}
	if actor.Role == models.RoleCompanyManager {
		if actor.CompanyID == nil {
			return false, ErrUnaffiliatedManager
		}
		return *actor.CompanyID == targetCompanyID, nil
	}
	return true, nil
}

// Require is the guard called at the top of every transition handler. It
// folds the boolean into a typed PermissionDenied so services have a single
// early-return.
func (e *Evaluator) Require(actor Actor, action Action, targetCompanyID uint) error {
	ok, err := e.CanPerform(actor, action, targetCompanyID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.PermissionDenied(string(action))
	}
	return nil
}
