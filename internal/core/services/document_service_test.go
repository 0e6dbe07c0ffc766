package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"peo-doctrack/internal/adapters/persistence/models"
	"peo-doctrack/internal/core/domain"
)

func newTestDocumentService(t *testing.T) (*DocumentService, *fakeDocumentRepo, *fakeDivisionRepo) {
	t.Helper()

	docRepo := newFakeDocumentRepo()
	divisionRepo := newFakeDivisionRepo()
	if err := divisionRepo.Create(context.Background(), &models.Division{
		ID:       1,
		Name:     "Construction",
		District: "1st",
		IsActive: true,
	}); err != nil {
		t.Fatalf("seed division: %v", err)
	}

	svc := NewDocumentService(docRepo, divisionRepo, &fakeBlobStore{})
	svc.now = func() time.Time {
		return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc, docRepo, divisionRepo
}

var adminActor = Actor{UserID: 1, Username: "admin", Role: domain.RoleAdmin}

func createDoc(t *testing.T, svc *DocumentService, kind string) *models.Document {
	t.Helper()
	doc, err := svc.Create(context.Background(), &CreateDocumentInput{
		Kind:       kind,
		Title:      "Test document",
		DivisionID: 1,
	}, adminActor)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return doc
}

func TestCreateAllocatesSequentialCodes(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)

	first := createDoc(t, svc, "POW")
	second := createDoc(t, svc, "POW")

	if first.Code != "POW-2026-00001" {
		t.Errorf("first code = %q, want POW-2026-00001", first.Code)
	}
	if second.Code != "POW-2026-00002" {
		t.Errorf("second code = %q, want POW-2026-00002", second.Code)
	}
	if first.Status != string(domain.StatusDraft) {
		t.Errorf("new document status = %q, want DRAFT", first.Status)
	}
}

func TestCreateNumbersKindsIndependently(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)

	createDoc(t, svc, "POW")
	pr := createDoc(t, svc, "PR")
	proj := createDoc(t, svc, "PROJ")

	if pr.Code != "PR-2026-00001" {
		t.Errorf("PR code = %q, want PR-2026-00001", pr.Code)
	}
	if proj.Code != "PROJ-2026-00001" {
		t.Errorf("PROJ code = %q, want PROJ-2026-00001", proj.Code)
	}
}

func TestDeletedCodeIsNeverReused(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)

	createDoc(t, svc, "POW")
	second := createDoc(t, svc, "POW")

	if err := svc.Delete(context.Background(), second.ID, adminActor); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	third := createDoc(t, svc, "POW")
	if third.Code != "POW-2026-00003" {
		t.Errorf("code after delete = %q, want POW-2026-00003", third.Code)
	}
}

func TestConcurrentCreatesGetDistinctCodes(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)

	const n = 50
	codes := make(chan string, n)
	var wg sync.WaitGroup

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc, err := svc.Create(context.Background(), &CreateDocumentInput{
				Kind:       "POW",
				Title:      fmt.Sprintf("Concurrent %d", i),
				DivisionID: 1,
			}, adminActor)
			if err != nil {
				t.Errorf("concurrent Create failed: %v", err)
				return
			}
			codes <- doc.Code
		}(i)
	}
	wg.Wait()
	close(codes)

	seen := make(map[string]bool)
	for code := range codes {
		if seen[code] {
			t.Fatalf("duplicate code allocated: %s", code)
		}
		seen[code] = true
		if !strings.HasPrefix(code, "POW-2026-") {
			t.Errorf("unexpected code format: %s", code)
		}
	}
	if len(seen) != n {
		t.Errorf("allocated %d distinct codes, want %d", len(seen), n)
	}
}

func TestCreateRetriesSerializationConflicts(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	docRepo.serializationFailures = 2

	doc := createDoc(t, svc, "POW")
	if doc.Code != "POW-2026-00001" {
		t.Errorf("code = %q, want POW-2026-00001", doc.Code)
	}
}

func TestCreateGivesUpUnderSustainedContention(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	docRepo.serializationFailures = allocatorMaxAttempts

	_, err := svc.Create(context.Background(), &CreateDocumentInput{
		Kind:       "POW",
		Title:      "Contended",
		DivisionID: 1,
	}, adminActor)
	if !errors.Is(err, domain.ErrResourceContention) {
		t.Errorf("expected ErrResourceContention, got %v", err)
	}
}

func TestCreateFailsWhenBucketExhausted(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	docRepo.setCounter("POW", 2026, domain.MaxSequence)

	_, err := svc.Create(context.Background(), &CreateDocumentInput{
		Kind:       "POW",
		Title:      "Overflow",
		DivisionID: 1,
	}, adminActor)
	if !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)

	_, err := svc.Create(context.Background(), &CreateDocumentInput{
		Kind:       "INVOICE",
		Title:      "Bad kind",
		DivisionID: 1,
	}, adminActor)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("invalid kind: expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.Create(context.Background(), &CreateDocumentInput{
		Kind:       "POW",
		Title:      "Unknown division",
		DivisionID: 99,
	}, adminActor)
	if !errors.Is(err, domain.ErrDivisionNotFound) {
		t.Errorf("unknown division: expected ErrDivisionNotFound, got %v", err)
	}

	clerk := Actor{UserID: 2, Username: "clerk", Role: domain.RoleDivisionClerk}
	_, err = svc.Create(context.Background(), &CreateDocumentInput{
		Kind:       "POW",
		Title:      "No permission",
		DivisionID: 1,
	}, clerk)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("clerk create: expected ErrForbidden, got %v", err)
	}
}

func TestUpdateFieldsStatusGate(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")

	title := "Updated title"

	// DRAFT is editable
	updated, err := svc.UpdateFields(context.Background(), doc.ID, &UpdateFieldsInput{Title: &title}, adminActor)
	if err != nil {
		t.Fatalf("UpdateFields on DRAFT failed: %v", err)
	}
	if updated.Title != title {
		t.Errorf("title = %q, want %q", updated.Title, title)
	}

	// FOR_REVIEW is frozen
	docRepo.setStatus(doc.ID, domain.StatusForReview)
	_, err = svc.UpdateFields(context.Background(), doc.ID, &UpdateFieldsInput{Title: &title}, adminActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("UpdateFields on FOR_REVIEW: expected ErrForbidden, got %v", err)
	}

	// REVISION is editable again
	docRepo.setStatus(doc.ID, domain.StatusRevision)
	if _, err := svc.UpdateFields(context.Background(), doc.ID, &UpdateFieldsInput{Title: &title}, adminActor); err != nil {
		t.Errorf("UpdateFields on REVISION failed: %v", err)
	}

	// RELEASED is frozen for good
	docRepo.setStatus(doc.ID, domain.StatusReleased)
	_, err = svc.UpdateFields(context.Background(), doc.ID, &UpdateFieldsInput{Title: &title}, adminActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("UpdateFields on RELEASED: expected ErrForbidden, got %v", err)
	}
}

func TestTransitionHappyPath(t *testing.T) {
	svc, _, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")

	clerk := Actor{UserID: 2, Username: "clerk", Role: domain.RoleDivisionClerk}
	moved, err := svc.Transition(context.Background(), doc.ID, "FOR_REVIEW", clerk)
	if err != nil {
		t.Fatalf("Transition to FOR_REVIEW failed: %v", err)
	}
	if moved.Status != string(domain.StatusForReview) {
		t.Errorf("status = %q, want FOR_REVIEW", moved.Status)
	}

	head := Actor{UserID: 3, Username: "head", Role: domain.RoleDivisionHead}
	moved, err = svc.Transition(context.Background(), doc.ID, "REVISION", head)
	if err != nil {
		t.Fatalf("Transition to REVISION failed: %v", err)
	}
	if moved.Status != string(domain.StatusRevision) {
		t.Errorf("status = %q, want REVISION", moved.Status)
	}
}

func TestTransitionToReleasedStamps(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")
	docRepo.setStatus(doc.ID, domain.StatusForReview)

	engineer := Actor{UserID: 5, Username: "pe", Role: domain.RoleProvincialEngineer}
	released, err := svc.Transition(context.Background(), doc.ID, "RELEASED", engineer)
	if err != nil {
		t.Fatalf("Transition to RELEASED failed: %v", err)
	}

	if released.Status != string(domain.StatusReleased) {
		t.Errorf("status = %q, want RELEASED", released.Status)
	}
	if released.ReleasedAt == nil {
		t.Fatal("released_at should be stamped")
	}
	if released.ReleasedTo == nil || *released.ReleasedTo != "1st District, Construction Division" {
		t.Errorf("released_to = %v, want 1st District, Construction Division", released.ReleasedTo)
	}
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")

	// DRAFT cannot go straight to RELEASED
	_, err := svc.Transition(context.Background(), doc.ID, "RELEASED", adminActor)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("DRAFT -> RELEASED: expected ErrInvalidTransition, got %v", err)
	}

	// Requesting the current status is not a transition
	_, err = svc.Transition(context.Background(), doc.ID, "DRAFT", adminActor)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("DRAFT -> DRAFT: expected ErrInvalidTransition, got %v", err)
	}

	// Unknown status string
	_, err = svc.Transition(context.Background(), doc.ID, "ARCHIVED", adminActor)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown status: expected ErrInvalidInput, got %v", err)
	}

	// RELEASED is terminal
	docRepo.setStatus(doc.ID, domain.StatusReleased)
	_, err = svc.Transition(context.Background(), doc.ID, "FOR_REVIEW", adminActor)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Errorf("RELEASED -> FOR_REVIEW: expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionRoleGate(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")
	docRepo.setStatus(doc.ID, domain.StatusForReview)

	// A clerk may submit but not release
	clerk := Actor{UserID: 2, Username: "clerk", Role: domain.RoleDivisionClerk}
	_, err := svc.Transition(context.Background(), doc.ID, "RELEASED", clerk)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("clerk release: expected ErrForbidden, got %v", err)
	}

	// A division head may not release either
	head := Actor{UserID: 3, Username: "head", Role: domain.RoleDivisionHead}
	_, err = svc.Transition(context.Background(), doc.ID, "RELEASED", head)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("division head release: expected ErrForbidden, got %v", err)
	}
}

// staleTransitionRepo simulates a concurrent writer beating the guarded
// update: the CAS always reports that the document already moved.
type staleTransitionRepo struct {
	*fakeDocumentRepo
}

func (r *staleTransitionRepo) Transition(ctx context.Context, id uint, from, to domain.Status, stamps map[string]interface{}) (bool, error) {
	return false, nil
}

func TestTransitionLostRaceIsConflict(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	divisionRepo := newFakeDivisionRepo()
	divisionRepo.Create(context.Background(), &models.Division{ID: 1, Name: "Construction", District: "1st"})

	svc := NewDocumentService(&staleTransitionRepo{fakeDocumentRepo: docRepo}, divisionRepo, &fakeBlobStore{})

	doc := createDoc(t, svc, "POW")

	_, err := svc.Transition(context.Background(), doc.ID, "FOR_REVIEW", adminActor)
	if !errors.Is(err, domain.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestDeleteOnlyDraft(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")

	docRepo.setStatus(doc.ID, domain.StatusForReview)
	err := svc.Delete(context.Background(), doc.ID, adminActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete FOR_REVIEW: expected ErrForbidden, got %v", err)
	}

	docRepo.setStatus(doc.ID, domain.StatusReleased)
	err = svc.Delete(context.Background(), doc.ID, adminActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delete RELEASED: expected ErrForbidden, got %v", err)
	}

	docRepo.setStatus(doc.ID, domain.StatusDraft)
	if err := svc.Delete(context.Background(), doc.ID, adminActor); err != nil {
		t.Errorf("delete DRAFT failed: %v", err)
	}

	_, err = svc.GetByID(context.Background(), doc.ID, adminActor)
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("expected ErrDocumentNotFound after delete, got %v", err)
	}
}

func TestAttachFile(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)
	doc := createDoc(t, svc, "POW")

	content := strings.NewReader("%PDF-1.4 fake")
	updated, err := svc.AttachFile(context.Background(), doc.ID, "pow-plan.pdf", content, 13, "application/pdf", adminActor)
	if err != nil {
		t.Fatalf("AttachFile failed: %v", err)
	}

	if updated.FileName != "pow-plan.pdf" {
		t.Errorf("file_name = %q, want pow-plan.pdf", updated.FileName)
	}
	if updated.FileSize != 13 {
		t.Errorf("file_size = %d, want 13", updated.FileSize)
	}
	if updated.FilePath == "" {
		t.Error("file_path should be recorded")
	}

	// Attachments follow the field-edit status gate
	docRepo.setStatus(doc.ID, domain.StatusForReview)
	_, err = svc.AttachFile(context.Background(), doc.ID, "late.pdf", strings.NewReader("x"), 1, "application/pdf", adminActor)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("attach on FOR_REVIEW: expected ErrForbidden, got %v", err)
	}
}

func TestListFilters(t *testing.T) {
	svc, docRepo, _ := newTestDocumentService(t)

	createDoc(t, svc, "POW")
	createDoc(t, svc, "POW")
	pr := createDoc(t, svc, "PR")
	docRepo.setStatus(pr.ID, domain.StatusForReview)

	kind := domain.KindPOW
	out, err := svc.List(context.Background(), &ListInput{Page: 1, Limit: 10, Kind: &kind}, adminActor)
	if err != nil {
		t.Fatalf("List by kind failed: %v", err)
	}
	if out.Total != 2 {
		t.Errorf("POW total = %d, want 2", out.Total)
	}

	status := domain.StatusForReview
	out, err = svc.List(context.Background(), &ListInput{Page: 1, Limit: 10, Status: &status}, adminActor)
	if err != nil {
		t.Fatalf("List by status failed: %v", err)
	}
	if out.Total != 1 {
		t.Errorf("FOR_REVIEW total = %d, want 1", out.Total)
	}
}
