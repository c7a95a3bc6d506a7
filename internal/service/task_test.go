package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sakif/droplog/internal/api"
	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/model"
)

func newTestTaskService(gw *fakeGateway) *TaskService {
	return NewTaskService(gw, testLogger())
}

// flippingBackend simulates the server side of PATCH /:id/toggle; it holds
// the authoritative completed flag and flips it on every call.
type flippingBackend struct {
	mu        sync.Mutex
	completed bool
	// gate, when non-nil, blocks each toggle until released; lets tests
	// hold a toggle "in flight".
	gate chan struct{}
}

func (b *flippingBackend) handle(method, path string, _ any) (*api.Envelope, error) {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed = !b.completed
	return okEnvelope(fmt.Sprintf(`{"id":"t1","title":"claim","completed":%v}`, b.completed)), nil
}

func TestToggle_ReturnsAuthoritativeState(t *testing.T) {
	backend := &flippingBackend{}
	gw := newFakeGateway("tok")
	gw.handler = backend.handle
	svc := newTestTaskService(gw)

	task, err := svc.Toggle(context.Background(), "t1")
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if !task.Completed {
		t.Error("Completed = false after first toggle, want true")
	}

	call := gw.lastCall(t)
	if call.Method != "PATCH" || call.Path != "/api/tasks/t1/toggle" {
		t.Errorf("call = %s %s, want PATCH /api/tasks/t1/toggle", call.Method, call.Path)
	}
}

func TestToggle_SecondConcurrentToggleRejected(t *testing.T) {
	backend := &flippingBackend{gate: make(chan struct{})}
	gw := newFakeGateway("tok")
	gw.handler = backend.handle
	svc := newTestTaskService(gw)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Toggle(context.Background(), "t1")
		firstDone <- err
	}()

	// Wait until the first toggle has reached the (gated) backend.
	for gw.callCount() == 0 {
		time.Sleep(time.Millisecond)
	}

	// A second toggle for the SAME id while the first is unresolved must
	// fail fast instead of racing.
	_, err := svc.Toggle(context.Background(), "t1")
	if !errors.Is(err, ErrToggleInFlight) {
		t.Fatalf("second toggle error = %v, want ErrToggleInFlight", err)
	}

	// A toggle for a DIFFERENT id is unaffected... but it shares the gate
	// here, so release everything first.
	close(backend.gate)
	if err := <-firstDone; err != nil {
		t.Fatalf("first toggle error = %v", err)
	}

	// After resolution the id is free again.
	if _, err := svc.Toggle(context.Background(), "t1"); err != nil {
		t.Fatalf("post-resolution toggle error = %v", err)
	}
}

func TestToggle_PairOfTogglesIsEven(t *testing.T) {
	// Two awaited toggles must land back on the starting value; the
	// idempotence-of-pairs law.
	backend := &flippingBackend{}
	gw := newFakeGateway("tok")
	gw.handler = backend.handle
	svc := newTestTaskService(gw)

	first, err := svc.Toggle(context.Background(), "t1")
	if err != nil {
		t.Fatalf("first Toggle() error = %v", err)
	}
	second, err := svc.Toggle(context.Background(), "t1")
	if err != nil {
		t.Fatalf("second Toggle() error = %v", err)
	}

	if first.Completed == second.Completed {
		t.Error("two sequential toggles returned the same state; the flip was lost")
	}
	if second.Completed != false {
		t.Errorf("after an even number of flips Completed = %v, want the starting value", second.Completed)
	}
}

func TestToggle_UnauthenticatedFailsFast(t *testing.T) {
	gw := newFakeGateway("")
	svc := newTestTaskService(gw)

	_, err := svc.Toggle(context.Background(), "t1")
	if !errors.Is(err, apperror.ErrNotAuthenticated) {
		t.Fatalf("error = %v, want ErrNotAuthenticated", err)
	}
	if gw.callCount() != 0 {
		t.Error("no request may be sent without a session")
	}
}

func TestTaskList_DecodesCollection(t *testing.T) {
	gw := newFakeGateway("tok")
	gw.handler = func(_, path string, _ any) (*api.Envelope, error) {
		if path != "/api/tasks" {
			t.Errorf("path = %q", path)
		}
		return okEnvelope(`[
			{"id":"t1","title":"claim drop","project":"LayerDrop","completed":false,"isDaily":true},
			{"id":"t2","title":"bridge funds","project":"ZetaFi","completed":true}
		]`), nil
	}
	svc := newTestTaskService(gw)

	tasks, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("List() returned %d tasks, want 2", len(tasks))
	}
	if !tasks[0].IsDaily {
		t.Error("tasks[0].IsDaily = false, want true")
	}
}

func TestTaskToday_UsesDailyEndpoint(t *testing.T) {
	gw := newFakeGateway("tok")
	gw.handler = func(_, path string, _ any) (*api.Envelope, error) {
		return okEnvelope(`[]`), nil
	}
	svc := newTestTaskService(gw)

	if _, err := svc.Today(context.Background()); err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if got := gw.lastCall(t).Path; got != "/api/tasks/today" {
		t.Errorf("path = %q, want /api/tasks/today", got)
	}
}

func TestTaskStats(t *testing.T) {
	gw := newFakeGateway("tok")
	gw.handler = func(_, _ string, _ any) (*api.Envelope, error) {
		return okEnvelope(`{"total":10,"completed":4,"pending":6,"dailyTotal":3,"dailyCompleted":1}`), nil
	}
	svc := newTestTaskService(gw)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Total != 10 || stats.Completed != 4 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestTaskCreate_RequiresTitle(t *testing.T) {
	gw := newFakeGateway("tok")
	svc := newTestTaskService(gw)

	_, err := svc.Create(context.Background(), &model.Task{Title: " "})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestTaskBulkCreate_RejectsEmptyBatch(t *testing.T) {
	gw := newFakeGateway("tok")
	svc := newTestTaskService(gw)

	_, err := svc.BulkCreate(context.Background(), nil)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if gw.callCount() != 0 {
		t.Error("empty batch must not issue a request")
	}
}
