package store

// User is a registered account. UID is the opaque identity carried in
// tokens and used to key chat sessions, turns, and context summaries.
type User struct {
	ID           int32
	UID          string
	Name         string
	Email        string
	PasswordHash string
	RefreshToken string
	CreatedTs    int64
}

type FindUser struct {
	ID    *int32
	UID   *string
	Email *string
}

type UpdateUser struct {
	ID           int32
	Name         *string
	PasswordHash *string
	RefreshToken *string
}

type DeleteUser struct {
	ID int32
}
