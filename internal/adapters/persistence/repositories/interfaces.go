package repositories

import (
	"context"
	"errors"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/core/domain"
)

// ErrSerialization marks a store-level conflict that is safe to retry:
// deadlock, lock wait timeout, or a lost race creating a counter row.
var ErrSerialization = errors.New("serialization conflict")

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// SessionRepository defines session row repository interface
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	Kind      *domain.Kind
	Status    *domain.Status
	CreatedBy *uint
}

// DocumentRepository defines document repository interface.
// CreateWithCode and Transition are the two multi-step mutations; both
// are atomic at the store level.
type DocumentRepository interface {
	// CreateWithCode allocates the next code in the (kind, year) bucket and
	// inserts the document in the same transaction. Conflicts that are safe
	// to retry are reported as ErrSerialization; an exhausted bucket is
	// domain.ErrCapacityExceeded.
	CreateWithCode(ctx context.Context, doc *models.Document, year int) error
	GetByID(ctx context.Context, id uint) (*models.Document, error)
	List(ctx context.Context, filter DocumentFilter, offset, limit int) ([]*models.Document, int64, error)
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	// Transition applies the status change plus stamps in one guarded
	// statement; it reports false when the document was no longer in the
	// expected from status.
	Transition(ctx context.Context, id uint, from, to domain.Status, stamps map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id uint) error
}

// DivisionRepository defines division master data repository interface
type DivisionRepository interface {
	Create(ctx context.Context, division *models.Division) error
	GetByID(ctx context.Context, id uint) (*models.Division, error)
	List(ctx context.Context) ([]*models.Division, error)
	Update(ctx context.Context, division *models.Division) error
	Delete(ctx context.Context, id uint) error
}
