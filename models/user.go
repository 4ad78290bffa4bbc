package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Email     string               `bson:"email" json:"email"`
	Username  string               `bson:"username" json:"username"`
	ImageURL  string               `bson:"imageUrl" json:"imageUrl"`
	Posts     []primitive.ObjectID `bson:"posts" json:"posts"`
	Comments  []primitive.ObjectID `bson:"comments" json:"comments"`
	Votes     []primitive.ObjectID `bson:"votes" json:"votes"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type AuthorSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	ImageURL string             `bson:"imageUrl" json:"imageUrl"`
}

func (u *User) Summary() *AuthorSummary {
	return &AuthorSummary{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}
