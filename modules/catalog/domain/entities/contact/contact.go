package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a person attached to a client. The e-mail address is the
// business key.
type Contact struct {
	id        uuid.UUID
	clientID  uuid.UUID
	email     string
	firstName string
	lastName  string
	phone     string
	role      string
	createdAt time.Time
	updatedAt time.Time
}

func New(clientID uuid.UUID, email string) Contact {
	return Contact{clientID: clientID, email: normalizeEmail(email)}
}

func Hydrate(
	id uuid.UUID,
	clientID uuid.UUID,
	email string,
	firstName string,
	lastName string,
	phone string,
	role string,
	createdAt time.Time,
	updatedAt time.Time,
) Contact {
	return Contact{
		id:        id,
		clientID:  clientID,
		email:     normalizeEmail(email),
		firstName: strings.TrimSpace(firstName),
		lastName:  strings.TrimSpace(lastName),
		phone:     phone,
		role:      role,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c Contact) ID() uuid.UUID        { return c.id }
func (c Contact) ClientID() uuid.UUID  { return c.clientID }
func (c Contact) Email() string        { return c.email }
func (c Contact) FirstName() string    { return c.firstName }
func (c Contact) LastName() string     { return c.lastName }
func (c Contact) Phone() string        { return c.phone }
func (c Contact) Role() string         { return c.role }
func (c Contact) CreatedAt() time.Time { return c.createdAt }
func (c Contact) UpdatedAt() time.Time { return c.updatedAt }
func (c Contact) IsZero() bool         { return c.id == uuid.Nil && c.email == "" }

func normalizeEmail(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
