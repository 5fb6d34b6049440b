package category

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	id          uuid.UUID
	code        string
	name        string
	description string
	parentID    *uuid.UUID
	createdAt   time.Time
	updatedAt   time.Time
}

func New(code, name string) Category {
	return Category{
		code: normalizeCode(code),
		name: strings.TrimSpace(name),
	}
}

func Hydrate(
	id uuid.UUID,
	code string,
	name string,
	description string,
	parentID *uuid.UUID,
	createdAt time.Time,
	updatedAt time.Time,
) Category {
	return Category{
		id:          id,
		code:        normalizeCode(code),
		name:        strings.TrimSpace(name),
		description: description,
		parentID:    parentID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (c Category) ID() uuid.UUID        { return c.id }
func (c Category) Code() string         { return c.code }
func (c Category) Name() string         { return c.name }
func (c Category) Description() string  { return c.description }
func (c Category) ParentID() *uuid.UUID { return c.parentID }
func (c Category) CreatedAt() time.Time { return c.createdAt }
func (c Category) UpdatedAt() time.Time { return c.updatedAt }
func (c Category) IsZero() bool         { return c.id == uuid.Nil && c.code == "" }

func normalizeCode(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }
