package repositories

import (
	"context"
	"errors"
	"fmt"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/core/domain"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MySQL error numbers the allocator treats as retriable.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrLockWaitTimeout = 1205
	mysqlErrDeadlock        = 1213
)

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

// CreateWithCode allocates the next code for the document's (kind, year)
// bucket and inserts the document, all inside one transaction. The counter
// row is locked with SELECT ... FOR UPDATE so concurrent allocations for
// the same bucket serialize on the store, never in process.
func (r *documentRepository) CreateWithCode(ctx context.Context, doc *models.Document, year int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var counter models.SequenceCounter
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("kind = ? AND year = ?", doc.Kind, year).
			First(&counter).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// First allocation in this bucket. A concurrent first allocation
			// loses on the unique (kind, year) index and retries.
			counter = models.SequenceCounter{Kind: doc.Kind, Year: year, LastValue: 0}
			if err := tx.Create(&counter).Error; err != nil {
				return err
			}
			// Re-acquire the row lock now that the row exists.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("kind = ? AND year = ?", doc.Kind, year).
				First(&counter).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		next := counter.LastValue + 1
		if next > domain.MaxSequence {
			return domain.ErrCapacityExceeded
		}

		if err := tx.Model(&counter).Update("last_value", next).Error; err != nil {
			return err
		}

		doc.Code = domain.FormatCode(domain.Kind(doc.Kind), year, next)
		return tx.Create(doc).Error
	})

	if err != nil && isRetriable(err) {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return err
}

// GetByID gets a document by ID with relations
func (r *documentRepository) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).
		Preload("Division").
		Preload("Creator").
		First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List lists documents with pagination
func (r *documentRepository) List(ctx context.Context, filter DocumentFilter, offset, limit int) ([]*models.Document, int64, error) {
	var docs []*models.Document
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Document{})
	if filter.Kind != nil {
		query = query.Where("kind = ?", string(*filter.Kind))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", *filter.CreatedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Division").
		Preload("Creator").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&docs).Error

	return docs, total, err
}

// UpdateFields updates a subset of document columns
func (r *documentRepository) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// Transition moves a document between statuses with a single guarded
// UPDATE. The from-status predicate makes the change a compare-and-swap:
// if a concurrent writer already moved the document, zero rows match and
// nothing is applied.
func (r *documentRepository) Transition(ctx context.Context, id uint, from, to domain.Status, stamps map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": string(to)}
	for col, val := range stamps {
		updates[col] = val
	}

	result := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete soft deletes a document. The code stays burned: counters never
// decrement, so the suffix is not reissued.
func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, id).Error
}

// isRetriable classifies store errors the allocator retry loop may absorb.
func isRetriable(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDuplicateEntry, mysqlErrLockWaitTimeout, mysqlErrDeadlock:
			return true
		}
	}
	return false
}
