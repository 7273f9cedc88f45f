package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/records"
	"github.com/yukikurage/duty-tracker/internal/repository"
)

// snapshot is one decoded read of both documents plus the identity index
// built from it.
type snapshot struct {
	users      []records.UserRecord
	projects   []records.ProjectRecord
	identities map[string]*models.Identity
}

func loadSnapshot(ctx context.Context, store repository.RecordStore) (*snapshot, error) {
	users, projects, err := store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	snap := &snapshot{
		users:      users,
		projects:   projects,
		identities: make(map[string]*models.Identity, len(users)),
	}
	for _, u := range users {
		snap.identities[u.Username] = &models.Identity{
			Username:       u.Username,
			EmailAddress:   u.EmailAddress,
			CredentialHash: u.CredentialHash,
			Active:         u.IsActive(),
		}
	}
	return snap, nil
}

func (s *snapshot) identity(username string) (*models.Identity, bool) {
	id, ok := s.identities[username]
	return id, ok
}

func (s *snapshot) projectIndex(id string) int {
	for i, p := range s.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// resolve returns the registered identity for a reference, or a detached one
// built from the reference itself when the username is no longer registered.
func (s *snapshot) resolve(username string, ref *records.IdentitySnapshot) *models.Identity {
	if id, ok := s.identity(username); ok {
		return id
	}
	detached := &models.Identity{Username: username, Active: true}
	if ref != nil {
		detached.EmailAddress = ref.EmailAddress
		if ref.Active != nil {
			detached.Active = *ref.Active
		}
	}
	return detached
}

// rehydrateProject builds the object graph for one project record.
func (s *snapshot) rehydrateProject(rec records.ProjectRecord) (*models.Project, error) {
	project := models.NewProject(rec.ID, rec.Title, s.resolve(rec.Leader, nil))
	for _, m := range rec.Members {
		project.Members = append(project.Members, s.resolve(m.Username, m.Snapshot))
	}
	for _, d := range rec.Duties {
		duty, err := s.rehydrateDuty(d)
		if err != nil {
			return nil, fmt.Errorf("project %q: %w", rec.ID, err)
		}
		project.Duties = append(project.Duties, duty)
	}
	return project, nil
}

func (s *snapshot) rehydrateDuty(rec records.DutyRecord) (*models.Duty, error) {
	duty := &models.Duty{
		ID:        rec.ID,
		Title:     rec.Title,
		Detail:    rec.Detail,
		Priority:  models.PriorityLow,
		Status:    models.DutyStatusBacklog,
		Assignees: make([]*models.Identity, 0, len(rec.Assignees)),
	}

	var err error
	if duty.StartTime, err = parseStoredTime(rec.StartTime); err != nil {
		return nil, fmt.Errorf("duty %q start_time: %w", rec.ID, err)
	}
	if duty.FinishTime, err = parseStoredTime(rec.FinishTime); err != nil {
		return nil, fmt.Errorf("duty %q finish_time: %w", rec.ID, err)
	}
	if rec.Priority != "" {
		if duty.Priority, err = models.ParsePriority(rec.Priority); err != nil {
			return nil, fmt.Errorf("duty %q: %w", rec.ID, err)
		}
	}
	if rec.Status != "" {
		if duty.Status, err = models.ParseDutyStatus(rec.Status); err != nil {
			return nil, fmt.Errorf("duty %q: %w", rec.ID, err)
		}
	}

	for i := range rec.Assignees {
		ref := rec.Assignees[i]
		duty.Assignees = append(duty.Assignees, s.resolve(ref.Username, &ref))
	}
	if rec.AssignedTo != nil {
		duty.AssignedTo = s.resolve(rec.AssignedTo.Username, rec.AssignedTo)
	}
	return duty, nil
}

func parseStoredTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return models.ParseTimestamp(value)
}

func formatStoredTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// flattenProject converts a project graph back to its record.
func flattenProject(p *models.Project) records.ProjectRecord {
	rec := records.ProjectRecord{
		ID:      p.ID,
		Title:   p.Title,
		Members: make([]records.MemberRef, 0, len(p.Members)),
		Duties:  make([]records.DutyRecord, 0, len(p.Duties)),
	}
	if p.Leader != nil {
		rec.Leader = p.Leader.Username
	}
	for _, m := range p.Members {
		rec.Members = append(rec.Members, records.MemberRef{Username: m.Username})
	}
	for _, d := range p.Duties {
		rec.Duties = append(rec.Duties, flattenDuty(d))
	}
	return rec
}

func flattenDuty(d *models.Duty) records.DutyRecord {
	rec := records.DutyRecord{
		ID:         d.ID,
		Title:      d.Title,
		Detail:     d.Detail,
		StartTime:  formatStoredTime(d.StartTime),
		FinishTime: formatStoredTime(d.FinishTime),
		Priority:   string(d.Priority),
		Status:     string(d.Status),
		Assignees:  make([]records.IdentitySnapshot, 0, len(d.Assignees)),
	}
	for _, a := range d.Assignees {
		rec.Assignees = append(rec.Assignees, snapshotOf(a))
	}
	if d.AssignedTo != nil {
		ref := snapshotOf(d.AssignedTo)
		rec.AssignedTo = &ref
	}
	return rec
}

// snapshotOf never copies the credential hash.
func snapshotOf(id *models.Identity) records.IdentitySnapshot {
	active := id.Active
	return records.IdentitySnapshot{
		Username:     id.Username,
		EmailAddress: id.EmailAddress,
		Active:       &active,
	}
}

// snapshotStore runs the load, mutate, flatten and persist cycle shared by
// every project operation.
type snapshotStore struct {
	records repository.RecordStore
}

// withProject loads the snapshot, rehydrates projectID, runs fn on it and
// writes the project document back. Nothing is written when fn fails.
func (s snapshotStore) withProject(ctx context.Context, projectID string, fn func(*snapshot, *models.Project) error) error {
	snap, idx, project, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	if err := fn(snap, project); err != nil {
		return err
	}

	updated := make([]records.ProjectRecord, len(snap.projects))
	copy(updated, snap.projects)
	updated[idx] = flattenProject(project)
	if err := s.records.WriteProjects(ctx, updated); err != nil {
		return fmt.Errorf("failed to save projects: %w", err)
	}
	return nil
}

// viewProject is withProject without the write.
func (s snapshotStore) viewProject(ctx context.Context, projectID string, fn func(*snapshot, *models.Project) error) error {
	snap, _, project, err := s.load(ctx, projectID)
	if err != nil {
		return err
	}
	return fn(snap, project)
}

func (s snapshotStore) load(ctx context.Context, projectID string) (*snapshot, int, *models.Project, error) {
	snap, err := loadSnapshot(ctx, s.records)
	if err != nil {
		return nil, -1, nil, err
	}
	idx := snap.projectIndex(projectID)
	if idx < 0 {
		return nil, -1, nil, models.NewEntityError("project", projectID, models.ErrProjectNotFound)
	}
	project, err := snap.rehydrateProject(snap.projects[idx])
	if err != nil {
		return nil, -1, nil, fmt.Errorf("failed to rehydrate project: %w", err)
	}
	return snap, idx, project, nil
}
