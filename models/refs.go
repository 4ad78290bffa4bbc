package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	CollUsers       = "users"
	CollCommunities = "communities"
	CollPosts       = "posts"
	CollComments    = "comments"
	CollVotes       = "votes"
)

const (
	FieldPosts    = "posts"
	FieldComments = "comments"
	FieldVotes    = "votes"
)

// Ref addresses a back-reference list on a parent document.
type Ref struct {
	Collection string
	ID         primitive.ObjectID
	Field      string
}

func UserRef(id primitive.ObjectID, field string) Ref {
	return Ref{Collection: CollUsers, ID: id, Field: field}
}

func CommunityRef(id primitive.ObjectID) Ref {
	return Ref{Collection: CollCommunities, ID: id, Field: FieldPosts}
}

func PostRef(id primitive.ObjectID, field string) Ref {
	return Ref{Collection: CollPosts, ID: id, Field: field}
}
