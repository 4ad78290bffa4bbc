package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Community struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name          string               `bson:"name" json:"name"`
	Description   string               `bson:"description" json:"description"`
	ImageURL      string               `bson:"imageUrl" json:"imageUrl"`
	ImagePublicID string               `bson:"imagePublicId,omitempty" json:"-"`
	AuthorID      primitive.ObjectID   `bson:"authorId" json:"authorId"`
	Posts         []primitive.ObjectID `bson:"posts" json:"posts"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type CommunitySummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}
