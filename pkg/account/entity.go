package account

import (
	"time"

	"github.com/google/uuid"
)

// User is a domain entity representing a registered account. The password
// hash lives in the repository layer and is never part of this projection.
type User struct {
	ID         uuid.UUID
	FirstName  string
	SecondName string
	IsMale     bool
	BirthDate  time.Time
	Biography  string
	City       string
}
