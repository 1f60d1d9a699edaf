package workflows

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStorePutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	status := WorkflowStatus{
		ID:          "pr-o-r-1",
		Type:        TypePR,
		Status:      StatusAnalyzing,
		LastUpdated: time.Now().UTC(),
		Services:    map[Platform]ServiceRef{},
	}
	if err := store.Put(ctx, status); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "pr-o-r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != TypePR || got.Status != StatusAnalyzing {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestMemoryStoreGetUnknown(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrWorkflowNotFound) {
		t.Fatalf("want ErrWorkflowNotFound, got %v", err)
	}
}

func TestMemoryStoreGetReturnsDetachedRecord(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	seed := WorkflowStatus{
		ID:     "pr-o-r-1",
		Type:   TypePR,
		Status: StatusCompleted,
		Services: map[Platform]ServiceRef{
			PlatformGitHub: {Status: "analyzed", URL: "https://github.com/o/r/pull/1"},
		},
	}
	if err := store.Put(ctx, seed); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "pr-o-r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Services[PlatformGitHub] = ServiceRef{Status: "changed"}
	got.Services[PlatformSlack] = ServiceRef{Channel: "C123"}

	again, err := store.Get(ctx, "pr-o-r-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Services[PlatformGitHub].Status != "analyzed" {
		t.Errorf("stored record changed without a Put: %+v", again.Services)
	}
	if _, ok := again.Services[PlatformSlack]; ok {
		t.Errorf("stored record gained a platform without a Put: %+v", again.Services)
	}
}

func TestMemoryStorePutDetachesCallerMap(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	services := map[Platform]ServiceRef{
		PlatformJira: {Status: "triaged", Key: "PROJ-1"},
	}
	if err := store.Put(ctx, WorkflowStatus{ID: "issue-PROJ-1", Type: TypeIssue, Status: StatusCompleted, Services: services}); err != nil {
		t.Fatalf("put: %v", err)
	}
	services[PlatformJira] = ServiceRef{Status: "later-mutation"}

	got, err := store.Get(ctx, "issue-PROJ-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Services[PlatformJira].Status != "triaged" {
		t.Errorf("stored record tracked the caller's map: %+v", got.Services)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := WorkflowStatus{ID: "issue-PROJ-1", Type: TypeIssue, Status: StatusAnalyzing}
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	second := first
	second.Status = StatusCompleted
	second.Services = map[Platform]ServiceRef{PlatformJira: {Status: "triaged", Key: "PROJ-1"}}
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("put overwrite: %v", err)
	}

	got, err := store.Get(ctx, "issue-PROJ-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("want completed, got %q", got.Status)
	}
	if got.Services[PlatformJira].Key != "PROJ-1" {
		t.Fatalf("services not replaced: %+v", got.Services)
	}
}
