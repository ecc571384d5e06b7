package app

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/example/uat/internal/models"
)

func seedSteps(uow *mockUnitOfWork, caseID int64, ids ...int64) {
	for i, id := range ids {
		step := &models.Step{CaseID: caseID, Position: i + 1}
		step.ID = id
		uow.cases.steps[caseID] = append(uow.cases.steps[caseID], step)
	}
}

func TestReorderStepsRewritesPositions(t *testing.T) {
	uow := newMockUnitOfWork()
	seedSteps(uow, 1, 100, 101, 102)
	svc := NewCaseService(&mockFactory{uow: uow}, zerolog.Nop())

	steps, err := svc.ReorderSteps(context.Background(), 1, []int64{102, 100, 101}, "alice")
	if err != nil {
		t.Fatalf("ReorderSteps failed: %v", err)
	}

	want := []int64{102, 100, 101}
	if len(steps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Errorf("position %d holds step %d, want %d", i+1, step.ID, want[i])
		}
		if step.Position != i+1 {
			t.Errorf("step %d position = %d, want %d", step.ID, step.Position, i+1)
		}
	}
	if uow.commits != 1 {
		t.Errorf("commits = %d, want 1", uow.commits)
	}
}

func TestReorderStepsAfterStepRemoval(t *testing.T) {
	uow := newMockUnitOfWork()
	seedSteps(uow, 1, 100, 101, 102)
	svc := NewCaseService(&mockFactory{uow: uow}, zerolog.Nop())

	if _, err := svc.RemoveStep(context.Background(), 100); err != nil {
		t.Fatalf("RemoveStep failed: %v", err)
	}

	// The survivors still sit at positions 2 and 3; reordering must not
	// collide with those occupied slots.
	steps, err := svc.ReorderSteps(context.Background(), 1, []int64{101, 102}, "alice")
	if err != nil {
		t.Fatalf("ReorderSteps after removal failed: %v", err)
	}

	want := []int64{101, 102}
	if len(steps) != len(want) {
		t.Fatalf("steps = %d, want %d", len(steps), len(want))
	}
	for i, step := range steps {
		if step.ID != want[i] {
			t.Errorf("position %d holds step %d, want %d", i+1, step.ID, want[i])
		}
		if step.Position != i+1 {
			t.Errorf("step %d position = %d, want %d", step.ID, step.Position, i+1)
		}
	}
}

func TestReorderStepsRejectsIncompleteList(t *testing.T) {
	uow := newMockUnitOfWork()
	seedSteps(uow, 1, 100, 101, 102)
	svc := NewCaseService(&mockFactory{uow: uow}, zerolog.Nop())

	_, err := svc.ReorderSteps(context.Background(), 1, []int64{102, 100}, "alice")
	if err == nil || !strings.Contains(err.Error(), "all 3 steps") {
		t.Fatalf("expected completeness error, got %v", err)
	}
	if uow.commits != 0 {
		t.Errorf("commits = %d, want 0", uow.commits)
	}
}

func TestReorderStepsRejectsForeignStep(t *testing.T) {
	uow := newMockUnitOfWork()
	seedSteps(uow, 1, 100, 101)
	seedSteps(uow, 2, 200)
	svc := NewCaseService(&mockFactory{uow: uow}, zerolog.Nop())

	_, err := svc.ReorderSteps(context.Background(), 1, []int64{100, 200}, "alice")
	if err == nil || !strings.Contains(err.Error(), "does not belong") {
		t.Fatalf("expected ownership error, got %v", err)
	}
}

func TestReorderStepsRejectsDuplicate(t *testing.T) {
	uow := newMockUnitOfWork()
	seedSteps(uow, 1, 100, 101)
	svc := NewCaseService(&mockFactory{uow: uow}, zerolog.Nop())

	_, err := svc.ReorderSteps(context.Background(), 1, []int64{100, 100}, "alice")
	if err == nil {
		t.Fatal("expected error for duplicated step id")
	}
}
