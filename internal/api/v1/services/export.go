package services

import (
	"context"
	"fmt"
	"io"

	"studyforge/internal/app/auth"
	"studyforge/internal/app/export"
	"studyforge/internal/app/repository"
)

// ExportServiceImpl implements the ExportService interface
type ExportServiceImpl struct {
	projects repository.ProjectRepository
}

// NewExportService creates a new export service
func NewExportService(projects repository.ProjectRepository) ExportService {
	return &ExportServiceImpl{projects: projects}
}

// ExportProjects writes the caller's own projects in the requested format.
// Shared projects are deliberately excluded from exports.
func (s *ExportServiceImpl) ExportProjects(ctx context.Context, user auth.User, format string, writer io.Writer) error {
	projects, err := s.projects.ListByOwners(ctx, []string{user.ID})
	if err != nil {
		return fmt.Errorf("failed to fetch projects: %w", err)
	}
	return export.Write(projects, format, writer)
}
