// Package records holds the flat, persisted shape of identities and projects
// and the JSON codec for whole documents.
package records

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// UserRecord is one entry of the identity document.
type UserRecord struct {
	Username       string `json:"username"`
	EmailAddress   string `json:"email_address"`
	CredentialHash string `json:"credential_hash"`
	Role           string `json:"role,omitempty"`
	// Active is optional on disk; a missing value means active.
	Active *bool `json:"active,omitempty"`
}

// IsActive applies the default for a missing active flag.
func (u UserRecord) IsActive() bool {
	return u.Active == nil || *u.Active
}

// UnmarshalJSON also accepts the legacy emailaddress and password keys.
func (u *UserRecord) UnmarshalJSON(data []byte) error {
	type plain UserRecord
	var aux struct {
		plain
		LegacyEmail    string `json:"emailaddress"`
		LegacyPassword string `json:"password"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = UserRecord(aux.plain)
	if u.EmailAddress == "" {
		u.EmailAddress = aux.LegacyEmail
	}
	if u.CredentialHash == "" {
		u.CredentialHash = aux.LegacyPassword
	}
	return nil
}

// IdentitySnapshot is a denormalized identity reference embedded in duty
// records. It never carries the credential hash.
type IdentitySnapshot struct {
	Username     string `json:"username"`
	EmailAddress string `json:"email_address,omitempty"`
	Active       *bool  `json:"active,omitempty"`
}

// UnmarshalJSON also accepts a bare username string and the legacy
// emailaddress key. Any legacy password in the object is dropped.
func (i *IdentitySnapshot) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var username string
		if err := json.Unmarshal(data, &username); err != nil {
			return err
		}
		*i = IdentitySnapshot{Username: username}
		return nil
	}

	type plain IdentitySnapshot
	var aux struct {
		plain
		LegacyEmail string `json:"emailaddress"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*i = IdentitySnapshot(aux.plain)
	if i.EmailAddress == "" {
		i.EmailAddress = aux.LegacyEmail
	}
	return nil
}

// MemberRef is a project member entry. It decodes from either a bare
// username string or an identity snapshot object and encodes as a username.
type MemberRef struct {
	Username string
	Snapshot *IdentitySnapshot
}

func (m MemberRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Username)
}

func (m *MemberRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var username string
		if err := json.Unmarshal(data, &username); err != nil {
			return err
		}
		*m = MemberRef{Username: username}
		return nil
	}

	var snap IdentitySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("member entry must be a username or an identity object: %w", err)
	}
	*m = MemberRef{Username: snap.Username, Snapshot: &snap}
	return nil
}

// DutyRecord is one duty inside a project record. Times are ISO-8601 strings.
type DutyRecord struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Detail     string             `json:"detail"`
	StartTime  string             `json:"start_time"`
	FinishTime string             `json:"finish_time"`
	Priority   string             `json:"priority"`
	Status     string             `json:"status"`
	Assignees  []IdentitySnapshot `json:"assignees"`
	AssignedTo *IdentitySnapshot  `json:"assigned_to"`
}

// UnmarshalJSON also accepts the legacy StartTime/ST/"Start Time",
// FinishTime/FT/"End Time" and AssignedTo/"Assigned To" keys.
func (d *DutyRecord) UnmarshalJSON(data []byte) error {
	type plain DutyRecord
	var aux struct {
		plain
		LegacyStart      string            `json:"StartTime"`
		LegacyST         string            `json:"ST"`
		LegacySpaceStart string            `json:"Start Time"`
		LegacyFinish     string            `json:"FinishTime"`
		LegacyFT         string            `json:"FT"`
		LegacyEndTime    string            `json:"End Time"`
		LegacyAssignedTo *IdentitySnapshot `json:"AssignedTo"`
		LegacySpacedTo   *IdentitySnapshot `json:"Assigned To"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = DutyRecord(aux.plain)
	d.StartTime = firstNonEmpty(d.StartTime, aux.LegacyStart, aux.LegacyST, aux.LegacySpaceStart)
	d.FinishTime = firstNonEmpty(d.FinishTime, aux.LegacyFinish, aux.LegacyFT, aux.LegacyEndTime)
	if d.AssignedTo == nil {
		d.AssignedTo = aux.LegacyAssignedTo
	}
	if d.AssignedTo == nil {
		d.AssignedTo = aux.LegacySpacedTo
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ProjectRecord is one entry of the project document.
type ProjectRecord struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Leader  string       `json:"leader"`
	Members []MemberRef  `json:"members"`
	Duties  []DutyRecord `json:"duties"`
}

// DecodeUsers decodes an identity document. Empty input is an empty set.
func DecodeUsers(data []byte) ([]UserRecord, error) {
	var users []UserRecord
	if err := decode(data, &users); err != nil {
		return nil, fmt.Errorf("decode users document: %w", err)
	}
	return users, nil
}

// DecodeProjects decodes a project document. Empty input is an empty set.
func DecodeProjects(data []byte) ([]ProjectRecord, error) {
	var projects []ProjectRecord
	if err := decode(data, &projects); err != nil {
		return nil, fmt.Errorf("decode projects document: %w", err)
	}
	return projects, nil
}

// EncodeUsers encodes an identity document; nil encodes as [].
func EncodeUsers(users []UserRecord) ([]byte, error) {
	if users == nil {
		users = []UserRecord{}
	}
	return encode(users)
}

// EncodeProjects encodes a project document; nil encodes as [].
func EncodeProjects(projects []ProjectRecord) ([]byte, error) {
	out := make([]ProjectRecord, len(projects))
	for i, p := range projects {
		if p.Members == nil {
			p.Members = []MemberRef{}
		}
		duties := make([]DutyRecord, len(p.Duties))
		for j, d := range p.Duties {
			if d.Assignees == nil {
				d.Assignees = []IdentitySnapshot{}
			}
			duties[j] = d
		}
		p.Duties = duties
		out[i] = p
	}
	return encode(out)
}

func decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
