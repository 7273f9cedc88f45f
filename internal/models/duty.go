package models

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

type DutyStatus string

const (
	DutyStatusBacklog  DutyStatus = "BACKLOG"
	DutyStatusTodo     DutyStatus = "TODO"
	DutyStatusDoing    DutyStatus = "DOING"
	DutyStatusDone     DutyStatus = "DONE"
	DutyStatusArchived DutyStatus = "ARCHIVED"
)

// DefaultDutyWindow is the distance between a new duty's start and finish.
const DefaultDutyWindow = 24 * time.Hour

// ParsePriority accepts a priority tag in any letter case.
func ParsePriority(value string) (Priority, error) {
	switch p := Priority(strings.ToUpper(strings.TrimSpace(value))); p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return p, nil
	}
	return "", NewEntityError("priority", value, ErrInvalidEnumValue)
}

// ParseDutyStatus accepts a status tag in any letter case.
func ParseDutyStatus(value string) (DutyStatus, error) {
	switch s := DutyStatus(strings.ToUpper(strings.TrimSpace(value))); s {
	case DutyStatusBacklog, DutyStatusTodo, DutyStatusDoing, DutyStatusDone, DutyStatusArchived:
		return s, nil
	}
	return "", NewEntityError("status", value, ErrInvalidEnumValue)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 , 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the date-time layouts accepted for duty windows.
// Layouts without a zone are read as local time.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, NewEntityError("timestamp", value, ErrInvalidTimestamp)
}

// Duty is a single task owned by a project.
type Duty struct {
	ID         string
	Title      string
	Detail     string
	StartTime  time.Time
	FinishTime time.Time
	Priority   Priority
	Status     DutyStatus
	// Assignees is the candidate set given at creation. AssignedTo is
	// maintained independently of it.
	Assignees  []*Identity
	AssignedTo *Identity
}

// NewDuty creates an unassigned BACKLOG/LOW duty starting at now.
func NewDuty(id, title, detail string, assignees []*Identity, now time.Time) *Duty {
	return &Duty{
		ID:         id,
		Title:      title,
		Detail:     detail,
		StartTime:  now,
		FinishTime: now.Add(DefaultDutyWindow),
		Priority:   PriorityLow,
		Status:     DutyStatusBacklog,
		Assignees:  assignees,
	}
}

// IsAssignedTo reports whether username is the current assignee.
func (d *Duty) IsAssignedTo(username string) bool {
	return d.AssignedTo != nil && d.AssignedTo.Username == username
}

// AssignTo overwrites the current assignee.
func (d *Duty) AssignTo(member *Identity) {
	d.AssignedTo = member
}

// Unassign clears the current assignee. It is safe on an unassigned duty.
func (d *Duty) Unassign() {
	d.AssignedTo = nil
}

// DutyUpdate is a partial edit. A nil slot leaves the field untouched.
type DutyUpdate struct {
	Title      *string
	Detail     *string
	StartTime  *string
	FinishTime *string
	Priority   *string
	Status     *string
}

// IsEmpty reports whether no slot is set.
func (u DutyUpdate) IsEmpty() bool {
	return u.Title == nil && u.Detail == nil && u.StartTime == nil &&
		u.FinishTime == nil && u.Priority == nil && u.Status == nil
}

// Apply validates every present slot and only then writes them, so a
// rejected update leaves the duty unchanged.
func (d *Duty) Apply(u DutyUpdate) error {
	var (
		start, finish time.Time
		priority      Priority
		status        DutyStatus
		err           error
	)
	if u.StartTime != nil {
		if start, err = ParseTimestamp(*u.StartTime); err != nil {
			return err
		}
	}
	if u.FinishTime != nil {
		if finish, err = ParseTimestamp(*u.FinishTime); err != nil {
			return err
		}
	}
	if u.Priority != nil {
		if priority, err = ParsePriority(*u.Priority); err != nil {
			return err
		}
	}
	if u.Status != nil {
		if status, err = ParseDutyStatus(*u.Status); err != nil {
			return err
		}
	}

	if u.Title != nil {
		d.Title = *u.Title
	}
	if u.Detail != nil {
		d.Detail = *u.Detail
	}
	if u.StartTime != nil {
		d.StartTime = start
	}
	if u.FinishTime != nil {
		d.FinishTime = finish
	}
	if u.Priority != nil {
		d.Priority = priority
	}
	if u.Status != nil {
		d.Status = status
	}
	return nil
}
