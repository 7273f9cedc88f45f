package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeUsers_Empty(t *testing.T) {
	users, err := DecodeUsers(nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	users, err = DecodeUsers([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestUserRecord_ActiveDefaultsToTrue(t *testing.T) {
	users, err := DecodeUsers([]byte(`[
		{"username":"alice","email_address":"a@example.com","credential_hash":"h"},
		{"username":"bob","email_address":"b@example.com","credential_hash":"h","active":false}
	]`))
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.True(t, users[0].IsActive())
	assert.False(t, users[1].IsActive())
}

func TestMemberRef_DecodesStringsAndObjects(t *testing.T) {
	projects, err := DecodeProjects([]byte(`[{
		"id":"P1","title":"Launch","leader":"alice",
		"members":["bob",{"username":"carol","email_address":"c@example.com","password":"leaked"}],
		"duties":[]
	}]`))
	require.NoError(t, err)
	require.Len(t, projects, 1)

	members := projects[0].Members
	require.Len(t, members, 2)
	assert.Equal(t, "bob", members[0].Username)
	assert.Nil(t, members[0].Snapshot)
	assert.Equal(t, "carol", members[1].Username)
	require.NotNil(t, members[1].Snapshot)
	assert.Equal(t, "c@example.com", members[1].Snapshot.EmailAddress)
}

func TestMemberRef_RejectsOtherShapes(t *testing.T) {
	_, err := DecodeProjects([]byte(`[{"id":"P1","members":[42]}]`))
	assert.Error(t, err)
}

func TestEncodeProjects_MembersAsUsernames(t *testing.T) {
	data, err := EncodeProjects([]ProjectRecord{{
		ID:      "P1",
		Title:   "Launch",
		Leader:  "alice",
		Members: []MemberRef{{Username: "bob", Snapshot: &IdentitySnapshot{Username: "bob", EmailAddress: "b@example.com"}}},
	}})
	require.NoError(t, err)

	assert.Contains(t, string(data), `"members": [`)
	assert.Contains(t, string(data), `"bob"`)
	assert.NotContains(t, string(data), "b@example.com")
	assert.Contains(t, string(data), `"duties": []`)
}

func TestEncodeProjects_NilIsEmptyArray(t *testing.T) {
	data, err := EncodeProjects(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = EncodeUsers(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestProjects_RoundTrip(t *testing.T) {
	active := true
	in := []ProjectRecord{{
		ID:      "P1",
		Title:   "Launch",
		Leader:  "alice",
		Members: []MemberRef{{Username: "bob"}},
		Duties: []DutyRecord{{
			ID:         "D1",
			Title:      "Write",
			Detail:     "docs",
			StartTime:  "2026-10-14T09:00:00Z",
			FinishTime: "2026-10-15T09:00:00Z",
			Priority:   "LOW",
			Status:     "BACKLOG",
			Assignees:  []IdentitySnapshot{{Username: "bob", EmailAddress: "b@example.com", Active: &active}},
			AssignedTo: &IdentitySnapshot{Username: "bob", Active: &active},
		}},
	}}

	data, err := EncodeProjects(in)
	require.NoError(t, err)
	out, err := DecodeProjects(data)
	require.NoError(t, err)

	assert.Equal(t, in, out)
}

func TestDecodeProjects_LegacyCapitalisedKeys(t *testing.T) {
	projects, err := DecodeProjects([]byte(`[{"ID":"1","Title":"Old","Leader":"alice","Members":["bob"],"Duties":[]}]`))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "1", projects[0].ID)
	assert.Equal(t, "Old", projects[0].Title)
	assert.Equal(t, "alice", projects[0].Leader)
}

func TestDecodeUsers_LegacyKeys(t *testing.T) {
	users, err := DecodeUsers([]byte(`[{"username":"alice","emailaddress":"a@x.io","password":"5e88","role":""}]`))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@x.io", users[0].EmailAddress)
	assert.Equal(t, "5e88", users[0].CredentialHash)
	assert.True(t, users[0].IsActive())
}

func TestDecodeProjects_LegacyDutyKeys(t *testing.T) {
	projects, err := DecodeProjects([]byte(`[{"ID":"1","Title":"Old","Leader":"alice","Members":["alice"],"Duties":[
		{"ID":"D1","Title":"a","Detail":"","StartTime":"2024-01-02 10:00:00","FinishTime":"2024-01-03 10:00:00",
		 "Priority":"LOW","Status":"BACKLOG",
		 "Assignees":[{"username":"bob","password":"x","emailaddress":"b@x.io","active":true}],
		 "AssignedTo":{"username":"bob","password":"x","emailaddress":"b@x.io","active":true}},
		{"ID":"D2","Title":"b","ST":"2024-01-02T10:00:00","FT":"2024-01-03T10:00:00","Status":"TODO","Assignees":[]},
		{"ID":"D3","Title":"c","Start Time":"2024-01-02T10:00:00.123456","Status":"BACKLOG","Assignees":[]}
	]}]`))
	require.NoError(t, err)
	duties := projects[0].Duties
	require.Len(t, duties, 3)

	assert.Equal(t, "2024-01-02 10:00:00", duties[0].StartTime)
	assert.Equal(t, "2024-01-03 10:00:00", duties[0].FinishTime)
	require.NotNil(t, duties[0].AssignedTo)
	assert.Equal(t, "bob", duties[0].AssignedTo.Username)
	assert.Equal(t, "b@x.io", duties[0].Assignees[0].EmailAddress)

	assert.Equal(t, "2024-01-02T10:00:00", duties[1].StartTime)
	assert.Equal(t, "2024-01-03T10:00:00", duties[1].FinishTime)
	assert.Equal(t, "2024-01-02T10:00:00.123456", duties[2].StartTime)
	assert.Empty(t, duties[2].FinishTime)
}

func TestEncodeUsers_DropsLegacyPassword(t *testing.T) {
	users, err := DecodeUsers([]byte(`[{"username":"alice","emailaddress":"a@x.io","password":"5e88"}]`))
	require.NoError(t, err)
	data, err := EncodeUsers(users)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"password"`)
	assert.Contains(t, string(data), `"credential_hash": "5e88"`)
}

func TestDecodeProjects_AddedDutyShape(t *testing.T) {
	projects, err := DecodeProjects([]byte(`[{"ID":"1","Title":"Old","Leader":"alice","Members":["bob"],"Duties":[
		{"ID":"D1","Title":"a","Detail":"","Start Time":"2024-01-02T10:00:00.5","End Time":"2024-01-03T10:00:00.5",
		 "Priority":"LOW","Status":"BACKLOG","Assignees":["bob"],"Assigned To":null},
		{"ID":"D2","Title":"b","Start Time":"2024-01-02T10:00:00","End Time":"2024-01-03T10:00:00",
		 "Priority":"LOW","Status":"TODO","Assignees":["bob"],"Assigned To":"bob"}
	]}]`))
	require.NoError(t, err)
	duties := projects[0].Duties
	require.Len(t, duties, 2)

	assert.Equal(t, "2024-01-03T10:00:00.5", duties[0].FinishTime)
	require.Len(t, duties[0].Assignees, 1)
	assert.Equal(t, "bob", duties[0].Assignees[0].Username)
	assert.Nil(t, duties[0].AssignedTo)

	require.NotNil(t, duties[1].AssignedTo)
	assert.Equal(t, "bob", duties[1].AssignedTo.Username)
}

func TestUsers_RoleSurvivesRewrite(t *testing.T) {
	users, err := DecodeUsers([]byte(`[{"username":"alice","emailaddress":"a@x.io","password":"5e88","role":"manager"}]`))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "manager", users[0].Role)

	data, err := EncodeUsers(users)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role": "manager"`)
}
