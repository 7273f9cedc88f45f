package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/duty-tracker/internal/metrics"
	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/records"
	"github.com/yukikurage/duty-tracker/internal/repository"
)

// ProjectService provides business logic for projects and their rosters.
type ProjectService struct {
	snapshots snapshotStore
	instrumentation
}

// NewProjectService creates a new ProjectService. log and rec may be nil.
func NewProjectService(store repository.RecordStore, log *slog.Logger, rec metrics.Recorder) *ProjectService {
	return &ProjectService{
		snapshots:       snapshotStore{records: store},
		instrumentation: newInstrumentation(log, rec),
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	ID     string
	Title  string
	Leader string
}

// CreateProject appends a project with no members and no duties. The leader
// is not added to the roster.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (project *models.Project, err error) {
	started := time.Now()
	id := strings.TrimSpace(input.ID)
	defer func() { s.done("create_project", started, err, "project", id, "leader", input.Leader) }()

	if id == "" {
		return nil, models.NewEntityError("field", "id", models.ErrMissingField)
	}

	snap, err := loadSnapshot(ctx, s.snapshots.records)
	if err != nil {
		return nil, err
	}
	if snap.projectIndex(id) >= 0 {
		return nil, models.NewEntityError("project", id, models.ErrDuplicateProjectID)
	}
	leader, ok := snap.identity(input.Leader)
	if !ok {
		return nil, models.NewEntityError("user", input.Leader, models.ErrLeaderNotFound)
	}

	project = models.NewProject(id, input.Title, leader)
	projects := append(snap.projects, flattenProject(project))
	if err := s.snapshots.records.WriteProjects(ctx, projects); err != nil {
		return nil, fmt.Errorf("failed to save projects: %w", err)
	}
	return project, nil
}

// DeleteProject removes the project record entirely. Identities are untouched.
func (s *ProjectService) DeleteProject(ctx context.Context, id, actor string) (err error) {
	started := time.Now()
	defer func() { s.done("delete_project", started, err, "project", id, "actor", actor) }()

	snap, err := loadSnapshot(ctx, s.snapshots.records)
	if err != nil {
		return err
	}
	idx := snap.projectIndex(id)
	if idx < 0 {
		return models.NewEntityError("project", id, models.ErrProjectNotFound)
	}
	if snap.projects[idx].Leader != actor {
		return models.NewEntityError("project", id, models.ErrNotLeader)
	}

	projects := make([]records.ProjectRecord, 0, len(snap.projects)-1)
	projects = append(projects, snap.projects[:idx]...)
	projects = append(projects, snap.projects[idx+1:]...)
	if err := s.snapshots.records.WriteProjects(ctx, projects); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	return nil
}

// MemberInput names the roster change and who is asking for it.
type MemberInput struct {
	ProjectID string
	Username  string
	Actor     string
}

// AddMember adds a registered identity to the roster.
func (s *ProjectService) AddMember(ctx context.Context, input MemberInput) (err error) {
	started := time.Now()
	defer func() {
		s.done("add_member", started, err, "project", input.ProjectID, "user", input.Username, "actor", input.Actor)
	}()

	return s.snapshots.withProject(ctx, input.ProjectID, func(snap *snapshot, project *models.Project) error {
		// Leadership first, then the lookup.
		if err := project.RequireLeader(input.Actor); err != nil {
			return err
		}
		user, ok := snap.identity(input.Username)
		if !ok {
			return models.NewEntityError("user", input.Username, models.ErrUserNotFound)
		}
		return project.AddMember(input.Actor, user)
	})
}

// RemoveMember drops a user from the roster. Removing a non-member succeeds.
// Duties keep any candidate or assignment that references the user.
func (s *ProjectService) RemoveMember(ctx context.Context, input MemberInput) (err error) {
	started := time.Now()
	defer func() {
		s.done("remove_member", started, err, "project", input.ProjectID, "user", input.Username, "actor", input.Actor)
	}()

	return s.snapshots.withProject(ctx, input.ProjectID, func(_ *snapshot, project *models.Project) error {
		_, err := project.RemoveMember(input.Actor, input.Username)
		return err
	})
}

// ProjectSummary is the (id, title) pair used in listings.
type ProjectSummary struct {
	ID    string
	Title string
}

// ProjectListing partitions projects by the caller's relation to them.
type ProjectListing struct {
	LedBy    []ProjectSummary
	MemberOf []ProjectSummary
}

// ListProjectsFor returns the projects username leads and the projects
// username is a member of, each in store order.
func (s *ProjectService) ListProjectsFor(ctx context.Context, username string) (*ProjectListing, error) {
	snap, err := loadSnapshot(ctx, s.snapshots.records)
	if err != nil {
		return nil, err
	}

	listing := &ProjectListing{LedBy: []ProjectSummary{}, MemberOf: []ProjectSummary{}}
	for _, p := range snap.projects {
		summary := ProjectSummary{ID: p.ID, Title: p.Title}
		if p.Leader == username {
			listing.LedBy = append(listing.LedBy, summary)
		}
		for _, m := range p.Members {
			if m.Username == username {
				listing.MemberOf = append(listing.MemberOf, summary)
				break
			}
		}
	}
	return listing, nil
}

// GetProject returns the rehydrated project if requester leads or belongs to it.
func (s *ProjectService) GetProject(ctx context.Context, id, requester string) (*models.Project, error) {
	var result *models.Project
	err := s.snapshots.viewProject(ctx, id, func(_ *snapshot, project *models.Project) error {
		if !project.CanView(requester) {
			return models.NewEntityError("project", id, models.ErrNotProjectMember)
		}
		result = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
