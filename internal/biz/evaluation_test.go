package biz

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/log"
)

// mockEvaluationRepo records the paging it was asked for.
type mockEvaluationRepo struct {
	gotPage     int
	gotPageSize int
}

func (m *mockEvaluationRepo) ListEvaluations(ctx context.Context, page, pageSize int) ([]*EvaluationRecord, int, error) {
	m.gotPage = page
	m.gotPageSize = pageSize
	return []*EvaluationRecord{{ID: 1, FairnessLabel: "fair"}}, 1, nil
}

func (m *mockEvaluationRepo) GetEvaluation(ctx context.Context, id int64) (*EvaluationRecord, error) {
	return &EvaluationRecord{ID: id}, nil
}

func TestEvaluationUseCase_List(t *testing.T) {
	repo := &mockEvaluationRepo{}
	uc := NewEvaluationUseCase(repo, log.DefaultLogger)

	records, total, err := uc.List(context.Background(), 2, 20)
	if err != nil {
		t.Errorf("List() error = %v", err)
		return
	}
	if total != 1 {
		t.Errorf("List() total = %v, want 1", total)
	}
	if len(records) != 1 || records[0].FairnessLabel != "fair" {
		t.Errorf("List() records = %v", records)
	}
	if repo.gotPage != 2 || repo.gotPageSize != 20 {
		t.Errorf("List() forwarded page=%d pageSize=%d", repo.gotPage, repo.gotPageSize)
	}
}

func TestEvaluationUseCase_ListClampsPaging(t *testing.T) {
	repo := &mockEvaluationRepo{}
	uc := NewEvaluationUseCase(repo, log.DefaultLogger)

	if _, _, err := uc.List(context.Background(), 0, -5); err != nil {
		t.Errorf("List() error = %v", err)
		return
	}
	if repo.gotPage != 1 {
		t.Errorf("List() page = %d, want 1", repo.gotPage)
	}
	if repo.gotPageSize != 10 {
		t.Errorf("List() pageSize = %d, want 10", repo.gotPageSize)
	}
}

func TestEvaluationUseCase_Get(t *testing.T) {
	uc := NewEvaluationUseCase(&mockEvaluationRepo{}, log.DefaultLogger)

	rec, err := uc.Get(context.Background(), 7)
	if err != nil {
		t.Errorf("Get() error = %v", err)
		return
	}
	if rec.ID != 7 {
		t.Errorf("Get() id = %d, want 7", rec.ID)
	}
}
