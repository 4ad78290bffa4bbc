package logic

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/models"
)

// Linker keeps the back-reference id lists on parents in step with child
// creates and deletes. Nothing reads those lists to answer "children of X";
// listings query the child's foreign key instead.
type Linker struct {
	refs RefStore
}

func NewLinker(refs RefStore) *Linker {
	return &Linker{refs: refs}
}

// LinkChild appends childID to each parent list. Repeating it is harmless.
func (l *Linker) LinkChild(ctx context.Context, childID primitive.ObjectID, parents ...models.Ref) error {
	for _, p := range parents {
		if err := l.refs.Link(ctx, p, childID); err != nil {
			return err
		}
	}
	return nil
}

func (l *Linker) UnlinkChild(ctx context.Context, childID primitive.ObjectID, parents ...models.Ref) error {
	for _, p := range parents {
		if err := l.refs.Unlink(ctx, p, childID); err != nil {
			return err
		}
	}
	return nil
}
