package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yukikurage/duty-tracker/internal/constants"
	"github.com/yukikurage/duty-tracker/internal/metrics"
	"github.com/yukikurage/duty-tracker/internal/models"
	"github.com/yukikurage/duty-tracker/internal/repository"
)

// DutyService handles duty creation, assignment and edits.
type DutyService struct {
	snapshots snapshotStore
	aiService *AIService
	now       func() time.Time
	instrumentation
}

// NewDutyService creates a new DutyService. aiService, log and rec may be nil.
func NewDutyService(store repository.RecordStore, aiService *AIService, log *slog.Logger, rec metrics.Recorder) *DutyService {
	return &DutyService{
		snapshots:       snapshotStore{records: store},
		aiService:       aiService,
		now:             time.Now,
		instrumentation: newInstrumentation(log, rec),
	}
}

// CreateDutyInput represents input for creating a duty
type CreateDutyInput struct {
	ProjectID string
	DutyID    string
	Title     string
	Detail    string
	// Assignees are candidate usernames; every one must be registered.
	Assignees []string
	Actor     string
}

// CreateDuty appends an unassigned BACKLOG/LOW duty whose window starts now
// and lasts DefaultDutyWindow.
func (s *DutyService) CreateDuty(ctx context.Context, input CreateDutyInput) (duty *models.Duty, err error) {
	started := time.Now()
	dutyID := strings.TrimSpace(input.DutyID)
	defer func() {
		s.done("create_duty", started, err, "project", input.ProjectID, "duty", dutyID, "actor", input.Actor)
	}()

	if dutyID == "" {
		return nil, models.NewEntityError("field", "id", models.ErrMissingField)
	}

	err = s.snapshots.withProject(ctx, input.ProjectID, func(snap *snapshot, project *models.Project) error {
		if err := project.RequireLeader(input.Actor); err != nil {
			return err
		}
		if _, exists := project.Duty(dutyID); exists {
			return models.NewEntityError("duty", dutyID, models.ErrDuplicateDutyID)
		}

		assignees := make([]*models.Identity, 0, len(input.Assignees))
		for _, username := range input.Assignees {
			identity, ok := snap.identity(username)
			if !ok {
				return models.NewEntityError("user", username, models.ErrAssigneeNotFound)
			}
			assignees = append(assignees, identity)
		}

		duty = models.NewDuty(dutyID, input.Title, input.Detail, assignees, s.now().Truncate(time.Second))
		return project.AddDuty(duty)
	})
	if err != nil {
		return nil, err
	}
	return duty, nil
}

// AssignInput names the duty and the member to hand it to.
type AssignInput struct {
	ProjectID string
	DutyID    string
	Username  string
	Actor     string
}

// AssignDuty sets the duty's assignee, overwriting any previous one. The
// target must be a current member of the project.
func (s *DutyService) AssignDuty(ctx context.Context, input AssignInput) (duty *models.Duty, err error) {
	started := time.Now()
	defer func() {
		s.done("assign_duty", started, err, "project", input.ProjectID, "duty", input.DutyID, "user", input.Username, "actor", input.Actor)
	}()

	err = s.snapshots.withProject(ctx, input.ProjectID, func(_ *snapshot, project *models.Project) error {
		if err := project.RequireLeader(input.Actor); err != nil {
			return err
		}
		duty, err = project.AssignDuty(input.DutyID, input.Username)
		return err
	})
	if err != nil {
		return nil, err
	}
	return duty, nil
}

// UnassignInput names the duty to clear.
type UnassignInput struct {
	ProjectID string
	DutyID    string
	Actor     string
}

// UnassignDuty clears the duty's assignee. It succeeds on an unassigned duty.
func (s *DutyService) UnassignDuty(ctx context.Context, input UnassignInput) (duty *models.Duty, err error) {
	started := time.Now()
	defer func() {
		s.done("unassign_duty", started, err, "project", input.ProjectID, "duty", input.DutyID, "actor", input.Actor)
	}()

	err = s.snapshots.withProject(ctx, input.ProjectID, func(_ *snapshot, project *models.Project) error {
		if err := project.RequireLeader(input.Actor); err != nil {
			return err
		}
		duty, err = project.UnassignDuty(input.DutyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return duty, nil
}

// UpdateDutyInput is a self-service edit by the duty's current assignee.
type UpdateDutyInput struct {
	Actor     string
	ProjectID string
	DutyID    string
	Fields    models.DutyUpdate
}

// UpdateDutyDetails applies the present fields of input.Fields after
// validating all of them. Start and finish are not ordered against each other.
func (s *DutyService) UpdateDutyDetails(ctx context.Context, input UpdateDutyInput) (duty *models.Duty, err error) {
	started := time.Now()
	defer func() {
		s.done("update_duty", started, err, "project", input.ProjectID, "duty", input.DutyID, "actor", input.Actor)
	}()

	err = s.snapshots.withProject(ctx, input.ProjectID, func(_ *snapshot, project *models.Project) error {
		duty, err = project.UpdateDuty(input.Actor, input.DutyID, input.Fields)
		return err
	})
	if err != nil {
		return nil, err
	}
	return duty, nil
}

// ListDuties returns the project's duties in store order. The requester
// must lead or belong to the project.
func (s *DutyService) ListDuties(ctx context.Context, projectID, requester string) ([]*models.Duty, error) {
	var duties []*models.Duty
	err := s.snapshots.viewProject(ctx, projectID, func(_ *snapshot, project *models.Project) error {
		if !project.CanView(requester) {
			return models.NewEntityError("project", projectID, models.ErrNotProjectMember)
		}
		duties = project.Duties
		return nil
	})
	if err != nil {
		return nil, err
	}
	return duties, nil
}

// SuggestDutiesInput represents input for AI duty suggestions
type SuggestDutiesInput struct {
	ProjectID string
	Text      string
	Actor     string
}

// SuggestDuties drafts duties from free text for the project leader to
// review. Nothing is persisted.
func (s *DutyService) SuggestDuties(ctx context.Context, input SuggestDutiesInput) (suggestions []SuggestedDuty, err error) {
	started := time.Now()
	defer func() { s.done("suggest_duties", started, err, "project", input.ProjectID, "actor", input.Actor) }()

	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	err = s.snapshots.viewProject(ctx, input.ProjectID, func(_ *snapshot, project *models.Project) error {
		return project.RequireLeader(input.Actor)
	})
	if err != nil {
		return nil, err
	}

	drafts, err := s.aiService.SuggestDutiesFromText(ctx, input.Text)
	if err != nil {
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, ErrAINoDutiesGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedDuties {
		return nil, ErrAITooManyDuties
	}

	suggestions = make([]SuggestedDuty, 0, len(drafts))
	for _, d := range drafts {
		if strings.TrimSpace(d.Title) == "" {
			continue
		}
		suggestions = append(suggestions, d)
	}
	if len(suggestions) == 0 {
		return nil, ErrAINoValidDuties
	}
	return suggestions, nil
}
