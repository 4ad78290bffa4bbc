package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func (t VoteType) Valid() bool {
	return t == VoteUp || t == VoteDown
}

// Weight is the contribution of a vote of this type to a post's score.
func (t VoteType) Weight() int64 {
	switch t {
	case VoteUp:
		return 1
	case VoteDown:
		return -1
	}
	return 0
}

// Vote is unique per (UserID, PostID).
type Vote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type      VoteType           `bson:"type" json:"type"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Weight is 0 for a nil vote so that "no previous vote" needs no special case.
func (v *Vote) Weight() int64 {
	if v == nil {
		return 0
	}
	return v.Type.Weight()
}

// VoteTally is the vote breakdown of one post. Score = Up - Down.
type VoteTally struct {
	Up    int64 `json:"up"`
	Down  int64 `json:"down"`
	Score int64 `json:"score"`
}
