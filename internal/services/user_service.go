package services

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/apperrors"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/storage"
)

// UserService manages staff and company-manager accounts.
type UserService struct {
	stg storage.IStorage
	acl *access.Evaluator
	log *logrus.Logger
}

func NewUserService(stg storage.IStorage, acl *access.Evaluator, log *logrus.Logger) *UserService {
	return &UserService{stg: stg, acl: acl, log: log}
}

// creatableRoles caps which roles each administrator may hand out.
var creatableRoles = map[models.Role][]models.Role{
	models.RoleSuperAdmin: {models.RoleSuperAdmin, models.RoleDirector, models.RoleDeputy, models.RoleOperator, models.RoleCompanyManager},
	models.RoleDirector:   {models.RoleDeputy, models.RoleOperator, models.RoleCompanyManager},
	models.RoleDeputy:     {models.RoleOperator, models.RoleCompanyManager},
}

func canCreateRole(by models.Role, target models.Role) bool {
	for _, r := range creatableRoles[by] {
		if r == target {
			return true
		}
	}
	return false
}

// CreateUserInput is the account-creation payload.
type CreateUserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
	CompanyID *uint
}

// Create adds an account. Company managers must carry a company; nobody
// else may.
func (s *UserService) Create(actor access.Actor, input CreateUserInput) (*models.User, error) {
	if err := s.acl.Require(actor, access.ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if !models.ValidRole(input.Role) {
		return nil, apperrors.Validation("role", "unknown role")
	}
	if !canCreateRole(actor.Role, input.Role) {
		return nil, apperrors.PermissionDenied("create a user with role " + string(input.Role))
	}
	if input.Role == models.RoleCompanyManager && input.CompanyID == nil {
		return nil, apperrors.Validation("company_id", "required for company managers")
	}
	if input.Role != models.RoleCompanyManager && input.CompanyID != nil {
		return nil, apperrors.Validation("company_id", "only company managers carry a company")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.Validation("password", "must be at least 8 characters")
	}
	if input.CompanyID != nil {
		if _, err := s.stg.Company().GetByID(*input.CompanyID); err != nil {
			return nil, notFoundOr(err, "company", *input.CompanyID)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		Active:       true,
		CompanyID:    input.CompanyID,
	}
	err = s.stg.WithinTx(func(tx storage.IStorage) error {
		if err := tx.User().Create(user); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				return apperrors.Conflict("email already in use")
			}
			return err
		}
		return recordAudit(tx, actor.UserID, "user.create", "user", user.ID, string(user.Role))
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return user, nil
}

// Authenticate checks credentials and returns the account. The transport
// layer turns this into a token.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	user, err := s.stg.User().GetByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.PermissionDenied("authenticate")
		}
		return nil, err
	}
	if !user.Active {
		return nil, apperrors.PermissionDenied("authenticate")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.PermissionDenied("authenticate")
	}
	return user, nil
}

// Actor resolves a stored user into the identity the evaluator consumes.
func (s *UserService) Actor(userID uint) (access.Actor, error) {
	user, err := s.stg.User().GetByID(userID)
	if err != nil {
		return access.Actor{}, notFoundOr(err, "user", userID)
	}
	return access.Actor{UserID: user.ID, Role: user.Role, CompanyID: user.CompanyID}, nil
}

// List returns all accounts; guarded by manage-users.
func (s *UserService) List(actor access.Actor) ([]models.User, error) {
	if err := s.acl.Require(actor, access.ActionManageUsers, 0); err != nil {
		return nil, err
	}
	return s.stg.User().List()
}

// Deactivate disables an account without deleting it.
func (s *UserService) Deactivate(actor access.Actor, userID uint) (*models.User, error) {
	if err := s.acl.Require(actor, access.ActionManageUsers, 0); err != nil {
		return nil, err
	}
	var user *models.User
	err := s.stg.WithinTx(func(tx storage.IStorage) error {
		var err error
		user, err = tx.User().GetByID(userID)
		if err != nil {
			return notFoundOr(err, "user", userID)
		}
		if !canCreateRole(actor.Role, user.Role) {
			return apperrors.PermissionDenied("deactivate a user with role " + string(user.Role))
		}
		user.Active = false
		if err := tx.User().Update(user); err != nil {
			return err
		}
		return recordAudit(tx, actor.UserID, "user.deactivate", "user", user.ID, user.Email)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
