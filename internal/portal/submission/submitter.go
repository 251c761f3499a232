package submission

import (
	"context"
	"errors"

	"workportal/internal/client"
	"workportal/internal/portal/session"
)

const (
	MessageSubmitted = "Report submitted successfully!"
	MessageFailed    = "Error submitting report. Please try again."
	MessageInvalid   = "Please fill in all required fields."
	MessageSignedOut = "Please log in to submit a report."
)

type Outcome struct {
	OK       bool
	Message  string
	ReportID string
	Issues   []Issue
}

type Submitter struct {
	Session       *session.Manager
	StatusOptions []string
}

func NewSubmitter(sess *session.Manager, statusOptions []string) *Submitter {
	return &Submitter{Session: sess, StatusOptions: statusOptions}
}

// Submit validates d locally and, when it is complete, sends it. On success
// the draft's tasks reset to one blank task; on failure they are kept.
func (s *Submitter) Submit(ctx context.Context, d *Draft) Outcome {
	if issues := d.Validate(s.StatusOptions); len(issues) > 0 {
		return Outcome{Message: MessageInvalid, Issues: issues}
	}
	api, err := s.Session.Authorized()
	if errors.Is(err, session.ErrNotAuthenticated) {
		return Outcome{Message: MessageSignedOut}
	}

	req := d.request()
	res, err := api.SubmitReport(ctx, req)
	if err != nil {
		err = s.Session.Observe(err)
		out := Outcome{Message: MessageFailed}
		for _, issue := range client.FieldIssues(err) {
			out.Issues = append(out.Issues, Issue{Field: issue.Field, Reason: issue.Reason})
		}
		return out
	}
	d.ResetTasks()
	return Outcome{OK: true, Message: MessageSubmitted, ReportID: res.ReportID}
}

func (d *Draft) request() client.ReportRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	req := client.ReportRequest{
		EmployeeName:     d.employeeName,
		Department:       d.selection.Department,
		Team:             d.selection.Team,
		ReportingManager: d.selection.Manager,
		Date:             d.date,
	}
	for _, t := range d.tasks {
		req.Tasks = append(req.Tasks, t.Submitted())
	}
	return req
}
