package services

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/core/domain"

	"gorm.io/gorm"
)

const (
	// allocatorMaxAttempts bounds the retry loop so bucket contention
	// stalls fail fast instead of queueing forever.
	allocatorMaxAttempts = 4
	allocatorBackoffBase = 25 * time.Millisecond
)

// DocumentService handles document business logic
type DocumentService struct {
	docRepo      repositories.DocumentRepository
	divisionRepo repositories.DivisionRepository
	blobStore    BlobStore

	// now is swappable in tests; allocation year comes from this clock.
	now func() time.Time
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	divisionRepo repositories.DivisionRepository,
	blobStore BlobStore,
) *DocumentService {
	return &DocumentService{
		docRepo:      docRepo,
		divisionRepo: divisionRepo,
		blobStore:    blobStore,
		now:          time.Now,
	}
}

// CreateDocumentInput represents create document input
type CreateDocumentInput struct {
	Kind        string  `json:"kind" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount,omitempty"`
	DivisionID  uint    `json:"division_id" validate:"required"`
}

// Create allocates the next document number for the (kind, current year)
// bucket and persists the document as DRAFT. Bucket conflicts are retried
// with backoff; an exhausted budget surfaces ErrResourceContention.
func (s *DocumentService) Create(ctx context.Context, input *CreateDocumentInput, actor Actor) (*models.Document, error) {
	if !domain.Allowed(actor.Role, domain.PermCreateDocument) {
		return nil, domain.ErrForbidden
	}

	kind, ok := domain.ParseKind(input.Kind)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.divisionRepo.GetByID(ctx, input.DivisionID); err != nil {
		return nil, domain.ErrDivisionNotFound
	}

	doc := &models.Document{
		Kind:        string(kind),
		Status:      string(domain.StatusDraft),
		Title:       input.Title,
		Description: input.Description,
		Amount:      input.Amount,
		DivisionID:  input.DivisionID,
		CreatedBy:   actor.UserID,
	}

	// Year is taken at allocation time, not from any caller-supplied date.
	year := s.now().Year()

	for attempt := 0; attempt < allocatorMaxAttempts; attempt++ {
		err := s.docRepo.CreateWithCode(ctx, doc, year)
		if err == nil {
			log.Printf("✅ Document created: %s by user %d", doc.Code, actor.UserID)
			return doc, nil
		}
		if !errors.Is(err, repositories.ErrSerialization) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(allocatorBackoffBase << attempt):
		}
	}

	return nil, domain.ErrResourceContention
}

// GetByID gets a document by ID
func (s *DocumentService) GetByID(ctx context.Context, id uint, actor Actor) (*models.Document, error) {
	if !domain.Allowed(actor.Role, domain.PermViewDocument) {
		return nil, domain.ErrForbidden
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListInput represents list input
type ListInput struct {
	Page      int
	Limit     int
	Kind      *domain.Kind
	Status    *domain.Status
	CreatedBy *uint
}

// ListOutput represents list output
type ListOutput struct {
	Documents  []*models.Document `json:"documents"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// List lists documents
func (s *DocumentService) List(ctx context.Context, input *ListInput, actor Actor) (*ListOutput, error) {
	if !domain.Allowed(actor.Role, domain.PermViewDocument) {
		return nil, domain.ErrForbidden
	}

	if input.Page < 1 {
		input.Page = 1
	}
	if input.Limit < 1 {
		input.Limit = 10
	}
	if input.Limit > 100 {
		input.Limit = 100
	}

	offset := (input.Page - 1) * input.Limit
	filter := repositories.DocumentFilter{
		Kind:      input.Kind,
		Status:    input.Status,
		CreatedBy: input.CreatedBy,
	}

	docs, total, err := s.docRepo.List(ctx, filter, offset, input.Limit)
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / input.Limit
	if int(total)%input.Limit > 0 {
		totalPages++
	}

	return &ListOutput{
		Documents:  docs,
		Total:      total,
		Page:       input.Page,
		Limit:      input.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateFieldsInput represents field edit input
type UpdateFieldsInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// UpdateFields edits document fields. Edits are only allowed while the
// document is DRAFT or REVISION; otherwise the call fails before any
// write reaches storage.
func (s *DocumentService) UpdateFields(ctx context.Context, id uint, input *UpdateFieldsInput, actor Actor) (*models.Document, error) {
	if !domain.Allowed(actor.Role, domain.PermEditDocument) {
		return nil, domain.ErrForbidden
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	if !domain.Editable(domain.Status(doc.Status)) {
		return nil, domain.ErrForbidden
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Amount != nil {
		fields["amount"] = *input.Amount
	}
	if len(fields) == 0 {
		return doc, nil
	}

	if err := s.docRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.docRepo.GetByID(ctx, id)
}

// AttachFile stores an upload in the blob store and records its metadata
// on the document. Attachment metadata is a field edit and follows the
// same status gate.
func (s *DocumentService) AttachFile(ctx context.Context, id uint, name string, content io.Reader, size int64, contentType string, actor Actor) (*models.Document, error) {
	if !domain.Allowed(actor.Role, domain.PermEditDocument) {
		return nil, domain.ErrForbidden
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	if !domain.Editable(domain.Status(doc.Status)) {
		return nil, domain.ErrForbidden
	}

	blob, err := s.blobStore.Store(ctx, content, size, name, contentType)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"file_path": blob.Path,
		"file_name": blob.Name,
		"file_size": blob.Size,
	}
	if err := s.docRepo.UpdateFields(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.docRepo.GetByID(ctx, id)
}

// Transition moves a document to the requested status. The transition
// table decides legality; the actor's role must hold the operation that
// enters the target status. Entering RELEASED stamps released_at and the
// released-to destination derived from the document's division at
// transition time.
func (s *DocumentService) Transition(ctx context.Context, id uint, requested string, actor Actor) (*models.Document, error) {
	to, ok := domain.ParseStatus(requested)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	if !domain.Allowed(actor.Role, domain.TransitionPermission(to)) {
		return nil, domain.ErrForbidden
	}

	from := domain.Status(doc.Status)
	if !domain.CanTransition(from, to) {
		return nil, domain.ErrInvalidTransition
	}

	stamps := map[string]interface{}{}
	if to == domain.StatusReleased {
		division, err := s.divisionRepo.GetByID(ctx, doc.DivisionID)
		if err != nil {
			return nil, domain.ErrDivisionNotFound
		}
		now := s.now()
		stamps["released_at"] = &now
		stamps["released_to"] = division.Destination()
	}

	applied, err := s.docRepo.Transition(ctx, id, from, to, stamps)
	if err != nil {
		return nil, err
	}
	if !applied {
		// A concurrent writer moved the document first.
		return nil, domain.ErrConflict
	}

	log.Printf("✅ Document %s: %s -> %s by user %d", doc.Code, from, to, actor.UserID)

	return s.docRepo.GetByID(ctx, id)
}

// Delete removes a document. Only DRAFT documents may be deleted; the
// allocated code is never reused either way.
func (s *DocumentService) Delete(ctx context.Context, id uint, actor Actor) error {
	if !domain.Allowed(actor.Role, domain.PermDeleteDocument) {
		return domain.ErrForbidden
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDocumentNotFound
		}
		return err
	}

	if !domain.Deletable(domain.Status(doc.Status)) {
		return domain.ErrForbidden
	}

	return s.docRepo.Delete(ctx, id)
}
