package services

import (
	"context"
	"errors"
	"log"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/core/domain"
	"peo-doctrack/internal/pkg/password"

	"gorm.io/gorm"
)

// UserService handles identity management. The super-administrator is
// protected: it can neither be deleted nor have its role changed, and at
// most one identity holds that role.
type UserService struct {
	userRepo     repositories.UserRepository
	divisionRepo repositories.DivisionRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository, divisionRepo repositories.DivisionRepository) *UserService {
	return &UserService{
		userRepo:     userRepo,
		divisionRepo: divisionRepo,
	}
}

// CreateUserInput represents create user input
type CreateUserInput struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"required"`
	DivisionID *uint  `json:"division_id,omitempty"`
}

// Create creates a new user account
func (s *UserService) Create(ctx context.Context, input *CreateUserInput) (*models.User, error) {
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, domain.ErrInvalidInput
	}
	if !password.ValidatePassword(input.Password) {
		return nil, domain.ErrInvalidInput
	}

	if err := s.ensureSuperAdminUnique(ctx, role); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	if input.DivisionID != nil {
		if _, err := s.divisionRepo.GetByID(ctx, *input.DivisionID); err != nil {
			return nil, domain.ErrDivisionNotFound
		}
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:   input.Username,
		Email:      input.Email,
		Password:   hashedPassword,
		Role:       string(role),
		Status:     models.UserStatusActive,
		DivisionID: input.DivisionID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ User created: %s [%s]", user.Username, user.Role)
	return user, nil
}

// GetByID gets a user by ID
func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List lists users with pagination
func (s *UserService) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	return s.userRepo.List(ctx, offset, limit)
}

// UpdateUserInput represents update user input
type UpdateUserInput struct {
	Email      *string `json:"email,omitempty"`
	Status     *string `json:"status,omitempty"`
	DivisionID *uint   `json:"division_id,omitempty"`
}

// Update updates a user's profile fields. The super-administrator account
// may only be updated by itself.
func (s *UserService) Update(ctx context.Context, id uint, input *UpdateUserInput, actor Actor) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == string(domain.RoleSuperAdmin) && actor.UserID != user.ID {
		return nil, domain.ErrForbidden
	}

	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Status != nil {
		switch *input.Status {
		case models.UserStatusActive, models.UserStatusInactive, models.UserStatusPending:
			user.Status = *input.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if input.DivisionID != nil {
		if _, err := s.divisionRepo.GetByID(ctx, *input.DivisionID); err != nil {
			return nil, domain.ErrDivisionNotFound
		}
		user.DivisionID = input.DivisionID
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's role. The super-administrator's role is
// immutable, and the role cannot be granted while another holder exists.
func (s *UserService) SetRole(ctx context.Context, id uint, newRole string) (*models.User, error) {
	role, ok := domain.ParseRole(newRole)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Role == string(domain.RoleSuperAdmin) {
		return nil, domain.ErrForbidden
	}

	if err := s.ensureSuperAdminUnique(ctx, role); err != nil {
		return nil, err
	}

	user.Role = string(role)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("✅ Role changed: %s -> %s", user.Username, user.Role)
	return user, nil
}

// Delete removes a user account. Deleting the super-administrator is
// forbidden.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == string(domain.RoleSuperAdmin) {
		return domain.ErrForbidden
	}

	return s.userRepo.Delete(ctx, id)
}

// ChangePassword verifies the current password before replacing it.
func (s *UserService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(current, user.Password) {
		return domain.ErrInvalidCredentials
	}
	if !password.ValidatePassword(next) {
		return domain.ErrInvalidInput
	}

	hashed, err := password.Hash(next)
	if err != nil {
		return err
	}

	user.Password = hashed
	return s.userRepo.Update(ctx, user)
}

// ensureSuperAdminUnique rejects granting SUPER_ADMIN while a holder
// exists. Steady state has exactly one.
func (s *UserService) ensureSuperAdminUnique(ctx context.Context, role domain.Role) error {
	if role != domain.RoleSuperAdmin {
		return nil
	}

	count, err := s.userRepo.CountByRole(ctx, domain.RoleSuperAdmin)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrConflict
	}
	return nil
}
