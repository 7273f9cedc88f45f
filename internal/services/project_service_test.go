package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/duty-tracker/internal/models"
)

func TestCreateProject_SecondCallFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t, "alice", "bob")
	ctx := context.Background()

	project, err := env.projects.CreateProject(ctx, CreateProjectInput{ID: "P1", Title: "Launch", Leader: "alice"})
	require.NoError(t, err)
	assert.Empty(t, project.Members, "leader is not added as a member")
	assert.Empty(t, project.Duties)

	for i := 0; i < 3; i++ {
		_, err = env.projects.CreateProject(ctx, CreateProjectInput{ID: "P1", Title: "Other", Leader: "bob"})
		assert.ErrorIs(t, err, models.ErrDuplicateProjectID)
		assert.ErrorIs(t, err, models.ErrDuplicateKey)
	}

	_, projects, err := env.store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Launch", projects[0].Title)
}

func TestCreateProject_UnknownLeader(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.projects.CreateProject(context.Background(), CreateProjectInput{ID: "P1", Title: "Launch", Leader: "ghost"})
	assert.ErrorIs(t, err, models.ErrLeaderNotFound)
	assert.Empty(t, env.raw(t), "nothing is written")
}

func TestDeleteProject_NonLeaderIsRejected(t *testing.T) {
	env := newTestEnv(t)
	env.scenario(t)
	ctx := context.Background()
	before := env.raw(t)

	err := env.projects.DeleteProject(ctx, "P1", "bob")
	assert.ErrorIs(t, err, models.ErrNotLeader)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Equal(t, before, env.raw(t))

	listing, err := env.projects.ListProjectsFor(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, listing.LedBy, 1)
	assert.Equal(t, "P1", listing.LedBy[0].ID)
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t)
	env.scenario(t)
	ctx := context.Background()
	_, err := env.projects.CreateProject(ctx, CreateProjectInput{ID: "P2", Title: "Second", Leader: "bob"})
	require.NoError(t, err)

	require.NoError(t, env.projects.DeleteProject(ctx, "P1", "alice"))
	assert.ErrorIs(t, env.projects.DeleteProject(ctx, "P1", "alice"), models.ErrProjectNotFound)

	users, projects, err := env.store.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "P2", projects[0].ID)
	assert.Len(t, users, 3, "identities survive project deletion")
}

func TestAddMember(t *testing.T) {
	env := newTestEnv(t)
	env.scenario(t)
	ctx := context.Background()

	err := env.projects.AddMember(ctx, MemberInput{ProjectID: "P1", Username: "bob", Actor: "alice"})
	assert.ErrorIs(t, err, models.ErrAlreadyMember)
	assert.ErrorIs(t, err, models.ErrAlreadyInState)

	err = env.projects.AddMember(ctx, MemberInput{ProjectID: "P1", Username: "carol", Actor: "bob"})
	assert.ErrorIs(t, err, models.ErrNotLeader)

	err = env.projects.AddMember(ctx, MemberInput{ProjectID: "P1", Username: "ghost", Actor: "alice"})
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	err = env.projects.AddMember(ctx, MemberInput{ProjectID: "P9", Username: "carol", Actor: "alice"})
	assert.ErrorIs(t, err, models.ErrProjectNotFound)

	require.NoError(t, env.projects.AddMember(ctx, MemberInput{ProjectID: "P1", Username: "carol", Actor: "alice"}))
	project, err := env.projects.GetProject(ctx, "P1", "alice")
	require.NoError(t, err)
	require.Len(t, project.Members, 2)
	assert.Equal(t, "bob", project.Members[0].Username)
	assert.Equal(t, "carol", project.Members[1].Username)
}

func TestRemoveMember_NonMemberIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	env.scenario(t)
	ctx := context.Background()

	require.NoError(t, env.projects.RemoveMember(ctx, MemberInput{ProjectID: "P1", Username: "carol", Actor: "alice"}))
	assert.ErrorIs(t,
		env.projects.RemoveMember(ctx, MemberInput{ProjectID: "P1", Username: "bob", Actor: "bob"}),
		models.ErrNotLeader)

	project, err := env.projects.GetProject(ctx, "P1", "alice")
	require.NoError(t, err)
	assert.Len(t, project.Members, 1)
}

func TestListProjectsFor(t *testing.T) {
	env := newTestEnv(t)
	env.seedUsers(t, "alice", "bob")
	ctx := context.Background()
	_, err := env.projects.CreateProject(ctx, CreateProjectInput{ID: "A", Title: "Alpha", Leader: "alice"})
	require.NoError(t, err)
	_, err = env.projects.CreateProject(ctx, CreateProjectInput{ID: "B", Title: "Beta", Leader: "bob"})
	require.NoError(t, err)
	_, err = env.projects.CreateProject(ctx, CreateProjectInput{ID: "C", Title: "Gamma", Leader: "alice"})
	require.NoError(t, err)
	require.NoError(t, env.projects.AddMember(ctx, MemberInput{ProjectID: "B", Username: "alice", Actor: "bob"}))
	require.NoError(t, env.projects.AddMember(ctx, MemberInput{ProjectID: "C", Username: "alice", Actor: "alice"}))

	listing, err := env.projects.ListProjectsFor(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []ProjectSummary{{ID: "A", Title: "Alpha"}, {ID: "C", Title: "Gamma"}}, listing.LedBy)
	assert.Equal(t, []ProjectSummary{{ID: "B", Title: "Beta"}, {ID: "C", Title: "Gamma"}}, listing.MemberOf)

	empty, err := env.projects.ListProjectsFor(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty.LedBy)
	assert.Empty(t, empty.MemberOf)
}

func TestGetProject_Outsider(t *testing.T) {
	env := newTestEnv(t)
	env.scenario(t)
	_, err := env.projects.GetProject(context.Background(), "P1", "carol")
	assert.ErrorIs(t, err, models.ErrNotProjectMember)
}
