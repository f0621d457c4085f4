package store

// Medicine is one scheduled medicine entry for a user.
type Medicine struct {
	ID      int32
	UID     string
	UserUID string
	Name    string
	Dosage  string
	Hour    int
	Minute  int
	Usage   string
}

type FindMedicine struct {
	UserUID string
	Name    *string
}

type DeleteMedicine struct {
	UserUID string
	UID     string
}
