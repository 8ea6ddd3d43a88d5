package core

import "github.com/google/uuid"

// StaticGroupID names one batch of instances appended to the static buffer,
// typically one tile layer of a map.
type StaticGroupID uuid.UUID

func NewStaticGroupID() StaticGroupID {
	return StaticGroupID(uuid.New())
}

func (id StaticGroupID) String() string {
	return uuid.UUID(id).String()
}
