package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title         string               `bson:"title" json:"title"`
	Content       string               `bson:"content,omitempty" json:"content,omitempty"`
	ImageURL      string               `bson:"imageUrl" json:"imageUrl"`
	ImagePublicID string               `bson:"imagePublicId,omitempty" json:"-"`
	ResourceType  string               `bson:"resourceType,omitempty" json:"resourceType,omitempty"` // image, video
	CommunityID   primitive.ObjectID   `bson:"communityId" json:"communityId"`
	AuthorID      primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Comments      []primitive.ObjectID `bson:"comments" json:"comments,omitempty"`
	Votes         []primitive.ObjectID `bson:"votes" json:"votes"`
	Score         int64                `bson:"score" json:"score"`
	LastEditedAt  *time.Time           `bson:"lastEditedAt,omitempty" json:"lastEditedAt,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PostView is a post with its author populated. Returned by every listing.
type PostView struct {
	Post   `bson:",inline"`
	Author *AuthorSummary `bson:"author,omitempty" json:"author"`
}

// PostFilter narrows post listings. Zero values match everything.
type PostFilter struct {
	CommunityID  primitive.ObjectID
	CreatedSince time.Time
}

// PostEdit carries the fields an author may change; nil leaves a field as is.
type PostEdit struct {
	Title    *string
	Content  *string
	EditedAt time.Time
}
