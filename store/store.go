package store

import (
	"context"
	"time"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	userCache *cache.Cache // cache for users, keyed by uid
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        1000,
	}

	return &Store{
		driver:    driver,
		profile:   profile,
		userCache: cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Ping verifies the underlying database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.GetDB().PingContext(ctx)
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	s.userCache.Close()
	return s.driver.Close()
}

func (s *Store) CreateUser(ctx context.Context, create *User) (*User, error) {
	user, err := s.driver.CreateUser(ctx, create)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(user.UID, user)
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context, find *FindUser) ([]*User, error) {
	return s.driver.ListUsers(ctx, find)
}

// GetUser returns a single user matching find, or nil when absent.
func (s *Store) GetUser(ctx context.Context, find *FindUser) (*User, error) {
	if find.UID != nil && find.Email == nil && find.ID == nil {
		if cached, ok := s.userCache.Get(*find.UID); ok {
			if user, ok := cached.(*User); ok {
				return user, nil
			}
		}
	}

	users, err := s.driver.ListUsers(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	user := users[0]
	s.userCache.Set(user.UID, user)
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, update *UpdateUser) (*User, error) {
	user, err := s.driver.UpdateUser(ctx, update)
	if err != nil {
		return nil, err
	}
	s.userCache.Set(user.UID, user)
	return user, nil
}

func (s *Store) DeleteUser(ctx context.Context, delete *DeleteUser) error {
	return s.driver.DeleteUser(ctx, delete)
}

func (s *Store) CreateChatTurn(ctx context.Context, create *ChatTurn) (*ChatTurn, error) {
	return s.driver.CreateChatTurn(ctx, create)
}

func (s *Store) ListChatTurns(ctx context.Context, find *FindChatTurn) ([]*ChatTurn, error) {
	return s.driver.ListChatTurns(ctx, find)
}

func (s *Store) UpsertUserContext(ctx context.Context, upsert *UserContext) (*UserContext, error) {
	return s.driver.UpsertUserContext(ctx, upsert)
}

func (s *Store) GetUserContext(ctx context.Context, find *FindUserContext) (*UserContext, error) {
	return s.driver.GetUserContext(ctx, find)
}

func (s *Store) CreateMedicine(ctx context.Context, create *Medicine) (*Medicine, error) {
	return s.driver.CreateMedicine(ctx, create)
}

func (s *Store) ListMedicines(ctx context.Context, find *FindMedicine) ([]*Medicine, error) {
	return s.driver.ListMedicines(ctx, find)
}

func (s *Store) DeleteMedicine(ctx context.Context, delete *DeleteMedicine) error {
	return s.driver.DeleteMedicine(ctx, delete)
}

func (s *Store) UpsertPlan(ctx context.Context, upsert *Plan) (*Plan, error) {
	return s.driver.UpsertPlan(ctx, upsert)
}

func (s *Store) GetPlan(ctx context.Context, find *FindPlan) (*Plan, error) {
	return s.driver.GetPlan(ctx, find)
}
