// Package submission builds a day's report on the client and sends it.
package submission

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
	"workportal/internal/portal/resolver"
)

var (
	ErrLastTask    = errors.New("a report needs at least one task")
	ErrUnknownTask = errors.New("unknown task")
)

// DraftTask is a task being edited. ID only correlates edits locally and is
// never sent.
type DraftTask struct {
	ID      string
	Details string
	Status  string
}

// Submitted converts the draft task to its wire form.
func (t DraftTask) Submitted() workreports.Task {
	return workreports.Task{Details: strings.TrimSpace(t.Details), Status: t.Status}
}

type Issue struct {
	Field  string
	Reason string
}

type Draft struct {
	mu           sync.Mutex
	employeeName string
	selection    resolver.Selection
	date         string
	tasks        []DraftTask
	nextID       int
}

// NewDraft starts a report for today with one blank task.
func NewDraft(employeeName string, sel resolver.Selection, today string) *Draft {
	d := &Draft{employeeName: employeeName, selection: sel, date: today}
	d.tasks = []DraftTask{d.blankTask()}
	return d
}

// Today is the current date in loc.
func Today(loc *time.Location, now time.Time) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(workreports.DateLayout)
}

func (d *Draft) blankTask() DraftTask {
	d.nextID++
	return DraftTask{ID: "task-" + strconv.Itoa(d.nextID), Status: directory.StatusWIP}
}

func (d *Draft) SetEmployeeName(name string) {
	d.mu.Lock()
	d.employeeName = name
	d.mu.Unlock()
}

func (d *Draft) SetDate(date string) {
	d.mu.Lock()
	d.date = date
	d.mu.Unlock()
}

func (d *Draft) Select(sel resolver.Selection) {
	d.mu.Lock()
	d.selection = sel
	d.mu.Unlock()
}

func (d *Draft) Selection() resolver.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection
}

func (d *Draft) Tasks() []DraftTask {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]DraftTask{}, d.tasks...)
}

// AddTask appends a blank task and returns its id.
func (d *Draft) AddTask() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	task := d.blankTask()
	d.tasks = append(d.tasks, task)
	return task.ID
}

func (d *Draft) UpdateTask(id, details, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.tasks {
		if d.tasks[i].ID == id {
			d.tasks[i].Details = details
			d.tasks[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTask, id)
}

// RemoveTask drops a task unless it is the only one left.
func (d *Draft) RemoveTask(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.tasks) <= 1 {
		return ErrLastTask
	}
	for i := range d.tasks {
		if d.tasks[i].ID == id {
			d.tasks = append(d.tasks[:i], d.tasks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownTask, id)
}

// ResetTasks leaves a single blank task.
func (d *Draft) ResetTasks() {
	d.mu.Lock()
	d.tasks = []DraftTask{d.blankTask()}
	d.mu.Unlock()
}

// Validate reports every missing field. statusOptions, when given, also
// restricts task statuses.
func (d *Draft) Validate(statusOptions []string) []Issue {
	d.mu.Lock()
	defer d.mu.Unlock()
	var issues []Issue
	required := []struct{ field, value string }{
		{"employee_name", d.employeeName},
		{"department", d.selection.Department},
		{"team", d.selection.Team},
		{"reporting_manager", d.selection.Manager},
		{"date", d.date},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			issues = append(issues, Issue{Field: r.field, Reason: "required"})
		}
	}
	if d.date != "" {
		if _, err := time.Parse(workreports.DateLayout, d.date); err != nil {
			issues = append(issues, Issue{Field: "date", Reason: "must be YYYY-MM-DD"})
		}
	}
	for i, t := range d.tasks {
		if strings.TrimSpace(t.Details) == "" {
			issues = append(issues, Issue{Field: fmt.Sprintf("tasks[%d].details", i), Reason: "required"})
		}
		if len(statusOptions) > 0 && !contains(statusOptions, t.Status) {
			issues = append(issues, Issue{Field: fmt.Sprintf("tasks[%d].status", i), Reason: "must be one of " + strings.Join(statusOptions, ", ")})
		}
	}
	return issues
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
