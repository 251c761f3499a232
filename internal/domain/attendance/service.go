package attendance

import (
	"context"
	"fmt"

	"workportal/internal/domain/directory"
	"workportal/internal/domain/workreports"
)

type Service struct {
	Reports   *workreports.Service
	Directory *directory.Service
}

func NewService(reports *workreports.Service, dir *directory.Service) *Service {
	return &Service{Reports: reports, Directory: dir}
}

// ForDate summarizes the given day, defaulting to today in the portal timezone.
func (s *Service) ForDate(ctx context.Context, date string) (Summary, error) {
	if date == "" {
		date = s.Reports.Today()
	}
	snap, err := s.Directory.Snapshot(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load directory: %w", err)
	}
	reports, err := s.Reports.ForDate(ctx, date)
	if err != nil {
		return Summary{}, fmt.Errorf("list reports for %s: %w", date, err)
	}
	return Summarize(date, snap.ManagerResources, reports), nil
}
