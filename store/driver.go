package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	Migrate(ctx context.Context) error

	// User model related methods.
	CreateUser(ctx context.Context, create *User) (*User, error)
	ListUsers(ctx context.Context, find *FindUser) ([]*User, error)
	UpdateUser(ctx context.Context, update *UpdateUser) (*User, error)
	DeleteUser(ctx context.Context, delete *DeleteUser) error

	// ChatTurn model related methods.
	CreateChatTurn(ctx context.Context, create *ChatTurn) (*ChatTurn, error)
	ListChatTurns(ctx context.Context, find *FindChatTurn) ([]*ChatTurn, error)

	// UserContext model related methods.
	UpsertUserContext(ctx context.Context, upsert *UserContext) (*UserContext, error)
	GetUserContext(ctx context.Context, find *FindUserContext) (*UserContext, error)

	// Medicine model related methods.
	CreateMedicine(ctx context.Context, create *Medicine) (*Medicine, error)
	ListMedicines(ctx context.Context, find *FindMedicine) ([]*Medicine, error)
	DeleteMedicine(ctx context.Context, delete *DeleteMedicine) error

	// Plan model related methods.
	UpsertPlan(ctx context.Context, upsert *Plan) (*Plan, error)
	GetPlan(ctx context.Context, find *FindPlan) (*Plan, error)
}
