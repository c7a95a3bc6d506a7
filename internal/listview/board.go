package listview

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sakif/droplog/internal/model"
)

// Toggler is the slice of the task service the board needs for the
// optimistic toggle flow.
type Toggler interface {
	Toggle(ctx context.Context, id string) (*model.Task, error)
}

// Deleter is the slice of the airdrop service used by the optimistic
// delete flow.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// TaskBoard holds the loaded task collection, the active filter, and runs
// the optimistic toggle flow:
//
//  1. flip `completed` locally (optimistic apply)
//  2. fire the remote toggle
//  3. success → overwrite with the authoritative server entity
//  4. failure → revert the local flip and return the error
//
// Close marks the board as unmounted; any response that resolves after
// Close is dropped instead of being applied to released state.
//
// ORDERING: two in-flight calls touching the same entity resolve in
// whatever order the network decides; the board applies last-response-wins
// and relies on the task service's per-id toggle guard to keep that safe
// for toggles.
type TaskBoard struct {
	mu      sync.Mutex
	tasks   []model.Task
	filter  TaskFilter
	toggler Toggler
	logger  *slog.Logger
	closed  bool
}

// NewTaskBoard creates an empty board.
func NewTaskBoard(toggler Toggler, logger *slog.Logger) *TaskBoard {
	return &TaskBoard{toggler: toggler, logger: logger}
}

// SetCollection replaces the loaded collection (after a fetch).
func (b *TaskBoard) SetCollection(tasks []model.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.tasks = append([]model.Task(nil), tasks...)
}

// SetFilter replaces the active filter.
func (b *TaskBoard) SetFilter(f TaskFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = f
}

// Filter returns the active filter.
func (b *TaskBoard) Filter() TaskFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Visible derives the filtered view. Computed per call, never cached; the
// collection is small and the derivation is the source of truth.
func (b *TaskBoard) Visible() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter.Apply(b.tasks)
}

// Loaded returns a copy of the full collection, for deriving filter
// options (Categories, ...).
func (b *TaskBoard) Loaded() []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Task(nil), b.tasks...)
}

// Task returns a copy of the task with the given id.
func (b *TaskBoard) Task(id string) (model.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			return b.tasks[i], true
		}
	}
	return model.Task{}, false
}

// ToggleTask runs the optimistic toggle flow for one task. It blocks until
// the round-trip resolves; bubbletea callers run it inside a tea.Cmd.
func (b *TaskBoard) ToggleTask(ctx context.Context, id string) error {
	// Optimistic apply, remembering the value to restore on failure.
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	idx := -1
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return fmt.Errorf("listview: task %s is not loaded", id)
	}
	before := b.tasks[idx].Completed
	b.tasks[idx].Completed = !before
	b.mu.Unlock()

	updated, err := b.toggler.Toggle(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		// The view is gone; neither confirmation nor rollback has
		// anywhere to land. Dropping the result is the contract.
		return nil
	}

	// The collection may have been refetched meanwhile; re-locate the task.
	idx = -1
	for i := range b.tasks {
		if b.tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return err
	}

	if err != nil {
		// Rollback: the flip never happened as far as the server is
		// concerned, so the view must not pretend it did.
		b.tasks[idx].Completed = before
		b.logger.Warn("task toggle failed, rolled back",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return err
	}

	// The server's entity is authoritative; it may disagree with the
	// optimistic flip (e.g. a completedAt timestamp) and it wins.
	b.tasks[idx] = *updated
	return nil
}

// Close marks the board unmounted. Idempotent.
func (b *TaskBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}

// AirdropBoard holds the loaded airdrop collection and the active filter,
// and runs the optimistic delete flow. Edits reconcile through ApplyUpdate
// with the authoritative record from the full-replace update call.
type AirdropBoard struct {
	mu       sync.Mutex
	airdrops []model.Airdrop
	filter   AirdropFilter
	deleter  Deleter
	logger   *slog.Logger
	closed   bool
}

// NewAirdropBoard creates an empty board.
func NewAirdropBoard(deleter Deleter, logger *slog.Logger) *AirdropBoard {
	return &AirdropBoard{deleter: deleter, logger: logger}
}

// SetCollection replaces the loaded collection.
func (b *AirdropBoard) SetCollection(airdrops []model.Airdrop) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.airdrops = append([]model.Airdrop(nil), airdrops...)
}

// SetFilter replaces the active filter.
func (b *AirdropBoard) SetFilter(f AirdropFilter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.filter = f
}

// Filter returns the active filter.
func (b *AirdropBoard) Filter() AirdropFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

// Visible derives the filtered view per call.
func (b *AirdropBoard) Visible() []model.Airdrop {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter.Apply(b.airdrops)
}

// Loaded returns a copy of the full collection, for deriving filter
// options (Ecosystems, Types, ...).
func (b *AirdropBoard) Loaded() []model.Airdrop {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Airdrop(nil), b.airdrops...)
}

// Get returns a copy of the airdrop with the given id.
func (b *AirdropBoard) Get(id string) (model.Airdrop, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.airdrops {
		if b.airdrops[i].ID == id {
			return b.airdrops[i], true
		}
	}
	return model.Airdrop{}, false
}

// ApplyUpdate replaces the local copy of an edited airdrop with the
// authoritative record returned by the update call. Unknown ids are
// ignored; the collection may have been refetched meanwhile
// (last-response-wins).
func (b *AirdropBoard) ApplyUpdate(updated *model.Airdrop) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed || updated == nil {
		return
	}
	for i := range b.airdrops {
		if b.airdrops[i].ID == updated.ID {
			b.airdrops[i] = *updated
			return
		}
	}
}

// DeleteAirdrop runs the optimistic delete flow: remove locally, fire the
// remote delete, restore at the original position on failure.
func (b *AirdropBoard) DeleteAirdrop(ctx context.Context, id string) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	idx := -1
	for i := range b.airdrops {
		if b.airdrops[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		b.mu.Unlock()
		return fmt.Errorf("listview: airdrop %s is not loaded", id)
	}
	removed := b.airdrops[idx]
	b.airdrops = append(b.airdrops[:idx], b.airdrops[idx+1:]...)
	b.mu.Unlock()

	err := b.deleter.Delete(ctx, id)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	if err != nil {
		// Restore at the original index so the rollback is visually
		// seamless (clamped if the collection shrank meanwhile).
		if idx > len(b.airdrops) {
			idx = len(b.airdrops)
		}
		b.airdrops = append(b.airdrops[:idx], append([]model.Airdrop{removed}, b.airdrops[idx:]...)...)
		b.logger.Warn("airdrop delete failed, restored",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// Close marks the board unmounted. Idempotent.
func (b *AirdropBoard) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
}
