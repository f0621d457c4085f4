package v1

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/plugin/ai"
	"github.com/usehealthifier/healthifier/server/auth"
	"github.com/usehealthifier/healthifier/server/chat"
	"github.com/usehealthifier/healthifier/store"
)

// fakeDriver is an in-memory store.Driver for handler tests.
type fakeDriver struct {
	mu        sync.Mutex
	nextID    int32
	users     []*store.User
	turns     []*store.ChatTurn
	contexts  []*store.UserContext
	medicines []*store.Medicine
	plans     []*store.Plan
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{}
}

func (d *fakeDriver) id() int32 {
	d.nextID++
	return d.nextID
}

func (*fakeDriver) GetDB() *sql.DB { return nil }
func (*fakeDriver) Close() error   { return nil }

func (*fakeDriver) IsInitialized(context.Context) (bool, error) { return true, nil }
func (*fakeDriver) Migrate(context.Context) error               { return nil }

func (d *fakeDriver) CreateUser(_ context.Context, create *store.User) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.users = append(d.users, create)
	return create, nil
}

func (d *fakeDriver) ListUsers(_ context.Context, find *store.FindUser) ([]*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []*store.User
	for _, user := range d.users {
		if find.ID != nil && user.ID != *find.ID {
			continue
		}
		if find.UID != nil && user.UID != *find.UID {
			continue
		}
		if find.Email != nil && user.Email != *find.Email {
			continue
		}
		matched = append(matched, user)
	}
	return matched, nil
}

func (d *fakeDriver) UpdateUser(_ context.Context, update *store.UpdateUser) (*store.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, user := range d.users {
		if user.ID != update.ID {
			continue
		}
		if update.Name != nil {
			user.Name = *update.Name
		}
		if update.PasswordHash != nil {
			user.PasswordHash = *update.PasswordHash
		}
		if update.RefreshToken != nil {
			user.RefreshToken = *update.RefreshToken
		}
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (d *fakeDriver) DeleteUser(_ context.Context, del *store.DeleteUser) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, user := range d.users {
		if user.ID == del.ID {
			d.users = append(d.users[:i], d.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (d *fakeDriver) CreateChatTurn(_ context.Context, create *store.ChatTurn) (*store.ChatTurn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.turns = append(d.turns, create)
	return create, nil
}

func (d *fakeDriver) ListChatTurns(_ context.Context, find *store.FindChatTurn) ([]*store.ChatTurn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []*store.ChatTurn
	for _, turn := range d.turns {
		if find.UserUID != nil && turn.UserUID != *find.UserUID {
			continue
		}
		matched = append(matched, turn)
	}
	if find.Limit != nil && len(matched) > *find.Limit {
		matched = matched[len(matched)-*find.Limit:]
	}
	return matched, nil
}

func (d *fakeDriver) UpsertUserContext(_ context.Context, upsert *store.UserContext) (*store.UserContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.contexts {
		if c.UserUID == upsert.UserUID && c.Kind == upsert.Kind {
			c.Summary = upsert.Summary
			c.UpdatedTs = upsert.UpdatedTs
			return c, nil
		}
	}
	upsert.ID = d.id()
	d.contexts = append(d.contexts, upsert)
	return upsert, nil
}

func (d *fakeDriver) GetUserContext(_ context.Context, find *store.FindUserContext) (*store.UserContext, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var latest *store.UserContext
	for _, c := range d.contexts {
		if c.UserUID != find.UserUID {
			continue
		}
		if find.Kind != nil && c.Kind != *find.Kind {
			continue
		}
		if latest == nil || c.UpdatedTs > latest.UpdatedTs {
			latest = c
		}
	}
	return latest, nil
}

func (d *fakeDriver) CreateMedicine(_ context.Context, create *store.Medicine) (*store.Medicine, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	create.ID = d.id()
	d.medicines = append(d.medicines, create)
	return create, nil
}

func (d *fakeDriver) ListMedicines(_ context.Context, find *store.FindMedicine) ([]*store.Medicine, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []*store.Medicine
	for _, m := range d.medicines {
		if m.UserUID != find.UserUID {
			continue
		}
		if find.Name != nil && m.Name != *find.Name {
			continue
		}
		matched = append(matched, m)
	}
	return matched, nil
}

func (d *fakeDriver) DeleteMedicine(_ context.Context, del *store.DeleteMedicine) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, m := range d.medicines {
		if m.UserUID == del.UserUID && m.UID == del.UID {
			d.medicines = append(d.medicines[:i], d.medicines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (d *fakeDriver) UpsertPlan(_ context.Context, upsert *store.Plan) (*store.Plan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.plans {
		if p.UserUID == upsert.UserUID && p.Kind == upsert.Kind {
			p.Content = upsert.Content
			p.Generalized = upsert.Generalized
			p.CreatedTs = upsert.CreatedTs
			return p, nil
		}
	}
	upsert.ID = d.id()
	d.plans = append(d.plans, upsert)
	return upsert, nil
}

func (d *fakeDriver) GetPlan(_ context.Context, find *store.FindPlan) (*store.Plan, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.plans {
		if p.UserUID != find.UserUID {
			continue
		}
		if find.Kind != nil && p.Kind != *find.Kind {
			continue
		}
		return p, nil
	}
	return nil, nil
}

var _ store.Driver = (*fakeDriver)(nil)

// newTestAPIService wires real collaborators over the fake driver.
func newTestAPIService(t *testing.T) (*APIV1Service, *ai.MockLLMService) {
	t.Helper()

	testProfile := &profile.Profile{
		Mode:             "dev",
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: time.Hour,
	}
	testStore := store.New(newFakeDriver(), testProfile)
	t.Cleanup(func() { _ = testStore.Close() })

	llm := ai.NewMockLLMService()
	registry := chat.NewRegistry(30 * time.Minute)
	chatService := chat.NewService(llm, testStore, testStore, registry, 10)

	return NewAPIV1Service(testProfile, testStore, auth.NewSigner(testProfile), chatService, llm), llm
}
