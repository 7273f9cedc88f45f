package models

// Project owns its duties and a member roster. Every mutation that needs
// leader authority or membership goes through a Project method.
type Project struct {
	ID     string
	Title  string
	Leader *Identity
	// Members does not implicitly contain Leader.
	Members []*Identity
	Duties  []*Duty
}

// NewProject creates a project with no members and no duties.
func NewProject(id, title string, leader *Identity) *Project {
	return &Project{
		ID:      id,
		Title:   title,
		Leader:  leader,
		Members: []*Identity{},
		Duties:  []*Duty{},
	}
}

// IsLeader reports whether username leads the project.
func (p *Project) IsLeader(username string) bool {
	return p.Leader != nil && p.Leader.Username == username
}

// Member returns the member with the given username.
func (p *Project) Member(username string) (*Identity, bool) {
	for _, m := range p.Members {
		if m.Username == username {
			return m, true
		}
	}
	return nil, false
}

// IsMember reports whether username is on the roster.
func (p *Project) IsMember(username string) bool {
	_, ok := p.Member(username)
	return ok
}

// CanView reports whether username may read the project's duties.
func (p *Project) CanView(username string) bool {
	return p.IsLeader(username) || p.IsMember(username)
}

// Duty returns the duty with the given id.
func (p *Project) Duty(id string) (*Duty, bool) {
	for _, d := range p.Duties {
		if d.ID == id {
			return d, true
		}
	}
	return nil, false
}

// RequireLeader fails with ErrNotLeader unless actor leads the project.
func (p *Project) RequireLeader(actor string) error {
	if !p.IsLeader(actor) {
		return NewEntityError("project", p.ID, ErrNotLeader)
	}
	return nil
}

// AddMember appends user to the roster.
func (p *Project) AddMember(actor string, user *Identity) error {
	if err := p.RequireLeader(actor); err != nil {
		return err
	}
	if p.IsMember(user.Username) {
		return NewEntityError("member", user.Username, ErrAlreadyMember)
	}
	p.Members = append(p.Members, user)
	return nil
}

// RemoveMember drops username from the roster and reports whether it was
// present. Duty assignees and assignments that reference the user are kept.
func (p *Project) RemoveMember(actor, username string) (bool, error) {
	if err := p.RequireLeader(actor); err != nil {
		return false, err
	}
	for i, m := range p.Members {
		if m.Username == username {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// AddDuty appends d, keeping duty ids unique within the project.
func (p *Project) AddDuty(d *Duty) error {
	if _, exists := p.Duty(d.ID); exists {
		return NewEntityError("duty", d.ID, ErrDuplicateDutyID)
	}
	p.Duties = append(p.Duties, d)
	return nil
}

// AssignDuty sets the duty's assignee to a current member. Membership alone
// qualifies; the duty's candidate set is not consulted.
func (p *Project) AssignDuty(dutyID, username string) (*Duty, error) {
	duty, ok := p.Duty(dutyID)
	if !ok {
		return nil, NewEntityError("duty", dutyID, ErrDutyNotFound)
	}
	member, ok := p.Member(username)
	if !ok {
		return nil, NewEntityError("member", username, ErrNotAMember)
	}
	duty.AssignTo(member)
	return duty, nil
}

// UnassignDuty clears the duty's assignee.
func (p *Project) UnassignDuty(dutyID string) (*Duty, error) {
	duty, ok := p.Duty(dutyID)
	if !ok {
		return nil, NewEntityError("duty", dutyID, ErrDutyNotFound)
	}
	duty.Unassign()
	return duty, nil
}

// UpdateDuty applies a self-service edit by the duty's current assignee.
func (p *Project) UpdateDuty(actor, dutyID string, update DutyUpdate) (*Duty, error) {
	duty, ok := p.Duty(dutyID)
	if !ok {
		return nil, NewEntityError("duty", dutyID, ErrDutyNotFound)
	}
	if !duty.IsAssignedTo(actor) {
		return nil, NewEntityError("duty", dutyID, ErrNotAssignee)
	}
	if err := duty.Apply(update); err != nil {
		return nil, err
	}
	return duty, nil
}
