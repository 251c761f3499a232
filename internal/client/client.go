// Package client is a typed HTTP client for the work portal API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"workportal/internal/domain/attendance"
	"workportal/internal/domain/auth"
	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
)

type Client struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New builds a client for the server at baseURL; the /api prefix is added
// per request.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url: %q", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithBearer returns a copy of c that authenticates with token.
func (c *Client) WithBearer(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

type SignupRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Team       string `json:"team,omitempty"`
}

type DirectoryListing struct {
	Departments directory.Directory `json:"departments"`
	Escalation  []string            `json:"escalation_managers"`
}

type Manager struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ReportRequest struct {
	EmployeeName     string             `json:"employee_name"`
	Department       string             `json:"department"`
	Team             string             `json:"team"`
	ReportingManager string             `json:"reporting_manager"`
	Date             string             `json:"date"`
	Tasks            []workreports.Task `json:"tasks"`
}

type SubmitResult struct {
	Message  string             `json:"message"`
	ReportID string             `json:"report_id"`
	Report   workreports.Report `json:"report"`
}

// File is a downloaded export.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, map[string]string{"email": email, "password": password}, &out)
	return out, err
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (auth.Session, error) {
	var out auth.Session
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, req, &out)
	return out, err
}

func (c *Client) Me(ctx context.Context) (auth.User, error) {
	var out auth.User
	err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

func (c *Client) Departments(ctx context.Context) (DirectoryListing, error) {
	var out DirectoryListing
	err := c.doJSON(ctx, http.MethodGet, "/departments", nil, nil, &out)
	return out, err
}

func (c *Client) StatusOptions(ctx context.Context) ([]string, error) {
	var out struct {
		Options []string `json:"status_options"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/status-options", nil, nil, &out)
	return out.Options, err
}

func (c *Client) ManagerResources(ctx context.Context) (map[string]int, error) {
	var out struct {
		Resources map[string]int `json:"manager_resources"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/manager-resources", nil, nil, &out)
	return out.Resources, err
}

func (c *Client) Managers(ctx context.Context) ([]Manager, error) {
	var out struct {
		Managers []Manager `json:"managers"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/managers", nil, nil, &out)
	return out.Managers, err
}

func (c *Client) SubmitReport(ctx context.Context, req ReportRequest) (SubmitResult, error) {
	var out SubmitResult
	err := c.doJSON(ctx, http.MethodPost, "/work-reports", nil, req, &out)
	return out, err
}

func (c *Client) ListReports(ctx context.Context, filter workreports.Filter) ([]workreports.Report, error) {
	var out struct {
		Reports []workreports.Report `json:"reports"`
	}
	err := c.doJSON(ctx, http.MethodGet, "/work-reports", filterQuery(filter), nil, &out)
	return out.Reports, err
}

func (c *Client) ReportSummary(ctx context.Context, filter workreports.Filter) (workreports.Summary, error) {
	var out workreports.Summary
	err := c.doJSON(ctx, http.MethodGet, "/work-reports/summary", filterQuery(filter), nil, &out)
	return out, err
}

func (c *Client) UpdateReport(ctx context.Context, id string, tasks []workreports.Task) (workreports.Report, error) {
	var out struct {
		Report workreports.Report `json:"report"`
	}
	err := c.doJSON(ctx, http.MethodPut, "/work-reports/"+url.PathEscape(id), nil, map[string]any{"tasks": tasks}, &out)
	return out.Report, err
}

func (c *Client) DeleteReport(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/work-reports/"+url.PathEscape(id), nil, nil, nil)
}

// ExportReports downloads the filtered reports as csv, pdf or xlsx.
func (c *Client) ExportReports(ctx context.Context, format string, filter workreports.Filter) (File, error) {
	switch format {
	case "csv", "pdf", "xlsx":
	default:
		return File{}, fmt.Errorf("unsupported export format %q", format)
	}
	return c.download(ctx, "/work-reports/export/"+format, filterQuery(filter))
}

func (c *Client) Attendance(ctx context.Context, date string) (attendance.Summary, error) {
	var out attendance.Summary
	err := c.doJSON(ctx, http.MethodGet, "/attendance-summary", dateQuery(date), nil, &out)
	return out, err
}

func (c *Client) AttendancePDF(ctx context.Context, date string) (File, error) {
	return c.download(ctx, "/attendance-summary/export/pdf", dateQuery(date))
}

func filterQuery(filter workreports.Filter) url.Values {
	f := filter.Normalize()
	q := url.Values{}
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("department", f.Department)
	set("team", f.Team)
	set("manager", f.Manager)
	set("from_date", f.FromDate)
	set("to_date", f.ToDate)
	return q
}

func dateQuery(date string) url.Values {
	q := url.Values{}
	if date = strings.TrimSpace(date); date != "" {
		q.Set("date", date)
	}
	return q
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, reqBody any) (*http.Request, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/api" + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("json marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("http do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("http read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Only the JSON error envelope carries a user-facing detail; proxy
		// pages and other bodies are dropped.
		apiErr := &APIError{}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr = &APIError{}
		}
		apiErr.Status = resp.StatusCode
		return resp, nil, apiErr
	}
	return resp, respBody, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, reqBody, out any) error {
	req, err := c.newRequest(ctx, method, path, query, reqBody)
	if err != nil {
		return err
	}
	_, respBody, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("json unmarshal response: %w", err)
	}
	return nil
}

func (c *Client) download(ctx context.Context, path string, query url.Values) (File, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return File{}, err
	}
	req.Header.Set("Accept", "*/*")
	resp, body, err := c.send(req)
	if err != nil {
		return File{}, err
	}
	file := File{ContentType: resp.Header.Get("Content-Type"), Body: body}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		file.Name = params["filename"]
	}
	return file, nil
}
