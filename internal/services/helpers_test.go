package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/duty-tracker/internal/records"
	"github.com/yukikurage/duty-tracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 15, 0, time.UTC)

type testEnv struct {
	backend    *repository.MemoryBackend
	store      *repository.DocumentRecordStore
	identities *IdentityService
	projects   *ProjectService
	duties     *DutyService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := repository.NewMemoryBackend()
	store := repository.NewRecordStore(backend, "users.json", "projects.json")
	duties := NewDutyService(store, nil, nil, nil)
	duties.now = func() time.Time { return fixedNow }
	return &testEnv{
		backend:    backend,
		store:      store,
		identities: NewIdentityService(store, nil, nil),
		projects:   NewProjectService(store, nil, nil),
		duties:     duties,
	}
}

// seedUsers writes identities with cheap bcrypt hashes of "password-<name>".
func (e *testEnv) seedUsers(t *testing.T, usernames ...string) {
	t.Helper()
	users := make([]records.UserRecord, 0, len(usernames))
	for _, name := range usernames {
		hash, err := bcrypt.GenerateFromPassword([]byte("password-"+name), bcrypt.MinCost)
		require.NoError(t, err)
		users = append(users, records.UserRecord{
			Username:       name,
			EmailAddress:   name + "@example.com",
			CredentialHash: string(hash),
		})
	}
	require.NoError(t, e.store.WriteUsers(context.Background(), users))
}

// raw returns the stored project document bytes.
func (e *testEnv) raw(t *testing.T) string {
	t.Helper()
	data, err := e.backend.Load(context.Background(), "projects.json")
	require.NoError(t, err)
	return string(data)
}

// scenario builds P1 led by alice with member bob and duty D1 whose
// candidate is bob.
func (e *testEnv) scenario(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	e.seedUsers(t, "alice", "bob", "carol")
	_, err := e.projects.CreateProject(ctx, CreateProjectInput{ID: "P1", Title: "Launch", Leader: "alice"})
	require.NoError(t, err)
	require.NoError(t, e.projects.AddMember(ctx, MemberInput{ProjectID: "P1", Username: "bob", Actor: "alice"}))
	_, err = e.duties.CreateDuty(ctx, CreateDutyInput{
		ProjectID: "P1", DutyID: "D1", Title: "Write docs", Detail: "README", Assignees: []string{"bob"}, Actor: "alice",
	})
	require.NoError(t, err)
}
