package model

import (
	"time"

	"github.com/google/uuid"
)

// Follow links a follower to the user they follow. Used for the
// new-post-from-followed fanout.
type Follow struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"`
	FollowedID uuid.UUID `json:"followed_id" db:"followed_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
