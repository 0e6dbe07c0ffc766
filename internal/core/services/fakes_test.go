package services

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/adapters/persistence/repositories"
	"peo-doctrack/internal/core/domain"

	"gorm.io/gorm"
)

// fakeDocumentRepo is an in-memory DocumentRepository. Allocation is
// serialized by a mutex the way the real store serializes it with a row
// lock, and it can inject a bounded number of retriable failures.
type fakeDocumentRepo struct {
	mu       sync.Mutex
	docs     map[uint]*models.Document
	counters map[string]int
	nextID   uint

	// failures left to inject before CreateWithCode succeeds
	serializationFailures int
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:     make(map[uint]*models.Document),
		counters: make(map[string]int),
	}
}

func bucketKey(kind string, year int) string {
	return fmt.Sprintf("%s-%d", kind, year)
}

func (r *fakeDocumentRepo) CreateWithCode(ctx context.Context, doc *models.Document, year int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.serializationFailures > 0 {
		r.serializationFailures--
		return fmt.Errorf("%w: injected", repositories.ErrSerialization)
	}

	key := bucketKey(doc.Kind, year)
	last := r.counters[key]
	if last >= domain.MaxSequence {
		return domain.ErrCapacityExceeded
	}

	r.counters[key] = last + 1
	r.nextID++

	doc.ID = r.nextID
	doc.Code = domain.FormatCode(domain.Kind(doc.Kind), year, last+1)
	doc.CreatedAt = time.Now()

	stored := *doc
	r.docs[doc.ID] = &stored
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id uint) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) List(ctx context.Context, filter repositories.DocumentFilter, offset, limit int) ([]*models.Document, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*models.Document
	for _, doc := range r.docs {
		if filter.Kind != nil && doc.Kind != string(*filter.Kind) {
			continue
		}
		if filter.Status != nil && doc.Status != string(*filter.Status) {
			continue
		}
		if filter.CreatedBy != nil && doc.CreatedBy != *filter.CreatedBy {
			continue
		}
		copied := *doc
		matched = append(matched, &copied)
	}

	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *fakeDocumentRepo) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for k, v := range fields {
		switch k {
		case "title":
			doc.Title = v.(string)
		case "description":
			doc.Description = v.(string)
		case "amount":
			doc.Amount = v.(float64)
		case "file_path":
			doc.FilePath = v.(string)
		case "file_name":
			doc.FileName = v.(string)
		case "file_size":
			doc.FileSize = v.(int64)
		}
	}
	return nil
}

func (r *fakeDocumentRepo) Transition(ctx context.Context, id uint, from, to domain.Status, stamps map[string]interface{}) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return false, nil
	}
	if doc.Status != string(from) {
		return false, nil
	}

	doc.Status = string(to)
	if v, ok := stamps["released_at"]; ok {
		doc.ReleasedAt = v.(*time.Time)
	}
	if v, ok := stamps["released_to"]; ok {
		dest := v.(string)
		doc.ReleasedTo = &dest
	}
	return true, nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.docs, id)
	return nil
}

// setStatus forces a document's status for test setup
func (r *fakeDocumentRepo) setStatus(id uint, status domain.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[id].Status = string(status)
}

// setCounter pre-positions a bucket's last issued value
func (r *fakeDocumentRepo) setCounter(kind string, year, last int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[bucketKey(kind, year)] = last
}

// fakeDivisionRepo is an in-memory DivisionRepository
type fakeDivisionRepo struct {
	mu        sync.Mutex
	divisions map[uint]*models.Division
}

func newFakeDivisionRepo() *fakeDivisionRepo {
	return &fakeDivisionRepo{divisions: make(map[uint]*models.Division)}
}

func (r *fakeDivisionRepo) Create(ctx context.Context, division *models.Division) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if division.ID == 0 {
		division.ID = uint(len(r.divisions) + 1)
	}
	copied := *division
	r.divisions[division.ID] = &copied
	return nil
}

func (r *fakeDivisionRepo) GetByID(ctx context.Context, id uint) (*models.Division, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	division, ok := r.divisions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *division
	return &copied, nil
}

func (r *fakeDivisionRepo) List(ctx context.Context) ([]*models.Division, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Division
	for _, d := range r.divisions {
		copied := *d
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeDivisionRepo) Update(ctx context.Context, division *models.Division) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *division
	r.divisions[division.ID] = &copied
	return nil
}

func (r *fakeDivisionRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.divisions, id)
	return nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.User
	for _, u := range r.users {
		copied := *u
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, u := range r.users {
		if u.Role == string(role) {
			count++
		}
	}
	return count, nil
}

// fakeSessionRepo is an in-memory SessionRepository with an optional
// injected write failure for the degraded-login path
type fakeSessionRepo struct {
	mu         sync.Mutex
	sessions   map[string]*models.Session
	failCreate bool
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*models.Session)}
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return fmt.Errorf("session table unavailable")
	}
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) DeleteAllByUserID(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, s := range r.sessions {
		if s.IsExpired() {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed, nil
}

// fakeBlobStore records what it was asked to store
type fakeBlobStore struct {
	mu     sync.Mutex
	stored []string
}

func (b *fakeBlobStore) Store(ctx context.Context, r io.Reader, size int64, name, contentType string) (*StoredBlob, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stored = append(b.stored, name)
	return &StoredBlob{
		Path: fmt.Sprintf("blob/%d-%s", len(b.stored), name),
		Name: name,
		Size: size,
	}, nil
}
