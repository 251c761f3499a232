// Package board lists, edits and deletes reports for the signed-in user.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"workportal/internal/client"
	"workportal/internal/domain/workreports"
	"workportal/internal/portal/session"
)

var (
	ErrForbidden     = errors.New("only managers can modify reports")
	ErrUnknownReport = errors.New("report is not on the board")
	ErrNotEditing    = errors.New("no report is being edited")
	ErrNoPending     = errors.New("no delete is pending")
	ErrEmptyTasks    = errors.New("a report needs at least one task")
	ErrBlankTask     = errors.New("task details are required")
)

type Mode int

const (
	Idle Mode = iota
	Editing
	Saving
	Deleting
)

func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Deleting:
		return "deleting"
	default:
		return "idle"
	}
}

type Board struct {
	session *session.Manager

	mu      sync.Mutex
	filter  Filters
	reports []workreports.Report
	seq     uint64
	mode    Mode
	target  string
	draft   []workreports.Task
}

func New(sess *session.Manager) *Board {
	return &Board{session: sess}
}

func (b *Board) api() (*client.Client, error) {
	return b.session.Authorized()
}

func (b *Board) requireManager() error {
	if !b.session.IsManager() {
		return ErrForbidden
	}
	return nil
}

// Refresh runs a query with f and keeps its result unless a newer query
// was started meanwhile. The team board is for managers only.
func (b *Board) Refresh(ctx context.Context, f Filters) error {
	if err := b.requireManager(); err != nil {
		return err
	}
	api, err := b.api()
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.seq++
	seq := b.seq
	b.filter = f
	b.mu.Unlock()

	reports, err := api.ListReports(ctx, f.Query())
	if err != nil {
		return b.session.Observe(err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		return nil
	}
	b.reports = reports
	return nil
}

// Reload re-runs the last query.
func (b *Board) Reload(ctx context.Context) error {
	return b.Refresh(ctx, b.Filters())
}

func (b *Board) Filters() Filters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

func (b *Board) Reports() []workreports.Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]workreports.Report{}, b.reports...)
}

func (b *Board) Summary() workreports.Summary {
	return workreports.Summarize(b.Reports())
}

func (b *Board) Mode() Mode {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mode
}

// Target is the report being edited or deleted.
func (b *Board) Target() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.target
}

func (b *Board) find(id string) (workreports.Report, bool) {
	for _, r := range b.reports {
		if r.ID == id {
			return r, true
		}
	}
	return workreports.Report{}, false
}

// StartEdit copies the report's tasks into an edit draft. Any unsaved edit
// or pending delete is discarded.
func (b *Board) StartEdit(id string) error {
	if err := b.requireManager(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	report, ok := b.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReport, id)
	}
	b.mode = Editing
	b.target = id
	b.draft = append([]workreports.Task{}, report.Tasks...)
	return nil
}

func (b *Board) EditTasks() []workreports.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]workreports.Task{}, b.draft...)
}

// SetTask changes task i of the edit draft; i == len appends.
func (b *Board) SetTask(i int, details, status string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode != Editing {
		return ErrNotEditing
	}
	task := workreports.Task{Details: details, Status: status}
	switch {
	case i == len(b.draft):
		b.draft = append(b.draft, task)
	case i >= 0 && i < len(b.draft):
		b.draft[i] = task
	default:
		return fmt.Errorf("task %d out of range", i)
	}
	return nil
}

func (b *Board) RemoveTask(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode != Editing {
		return ErrNotEditing
	}
	if i < 0 || i >= len(b.draft) {
		return fmt.Errorf("task %d out of range", i)
	}
	if len(b.draft) == 1 {
		return ErrEmptyTasks
	}
	b.draft = append(b.draft[:i], b.draft[i+1:]...)
	return nil
}

func (b *Board) CancelEdit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode == Editing {
		b.reset()
	}
}

func (b *Board) reset() {
	b.mode = Idle
	b.target = ""
	b.draft = nil
}

// SaveEdit replaces the report's tasks with the draft and reloads. A failed
// save keeps the draft open.
func (b *Board) SaveEdit(ctx context.Context) error {
	api, err := b.api()
	if err != nil {
		return err
	}
	b.mu.Lock()
	if b.mode != Editing {
		b.mu.Unlock()
		return ErrNotEditing
	}
	id := b.target
	if len(b.draft) == 0 {
		b.mu.Unlock()
		return ErrEmptyTasks
	}
	tasks := make([]workreports.Task, 0, len(b.draft))
	for i, t := range b.draft {
		if strings.TrimSpace(t.Details) == "" {
			b.mu.Unlock()
			return fmt.Errorf("tasks[%d]: %w", i, ErrBlankTask)
		}
		tasks = append(tasks, t)
	}
	b.mode = Saving
	b.mu.Unlock()

	_, err = api.UpdateReport(ctx, id, tasks)
	b.mu.Lock()
	if err != nil {
		if b.mode == Saving {
			b.mode = Editing
		}
		b.mu.Unlock()
		return b.session.Observe(mapError(err))
	}
	if b.target == id {
		b.reset()
	}
	b.mu.Unlock()
	return b.Reload(ctx)
}

// RequestDelete marks a report for deletion; nothing is sent until
// ConfirmDelete.
func (b *Board) RequestDelete(id string) error {
	if err := b.requireManager(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.find(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownReport, id)
	}
	b.mode = Deleting
	b.target = id
	b.draft = nil
	return nil
}

// ConfirmDelete deletes the pending report when confirmed and reloads.
// Declining makes no call.
func (b *Board) ConfirmDelete(ctx context.Context, confirmed bool) error {
	b.mu.Lock()
	if b.mode != Deleting {
		b.mu.Unlock()
		return ErrNoPending
	}
	id := b.target
	b.reset()
	b.mu.Unlock()
	if !confirmed {
		return nil
	}

	api, err := b.api()
	if err != nil {
		return err
	}
	if err := api.DeleteReport(ctx, id); err != nil {
		return b.session.Observe(mapError(err))
	}
	return b.Reload(ctx)
}

// Export downloads the current query in format.
func (b *Board) Export(ctx context.Context, format string) (client.File, error) {
	if err := b.requireManager(); err != nil {
		return client.File{}, err
	}
	api, err := b.api()
	if err != nil {
		return client.File{}, err
	}
	file, err := api.ExportReports(ctx, format, b.Filters().Query())
	if err != nil {
		return client.File{}, b.session.Observe(err)
	}
	return file, nil
}

func mapError(err error) error {
	if client.IsForbidden(err) {
		return fmt.Errorf("%w: %s", ErrForbidden, client.Detail(err, "forbidden"))
	}
	return err
}
