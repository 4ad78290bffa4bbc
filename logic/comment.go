package logic

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/events"
	"reddit/models"
)

type CommentService struct {
	users    UserStore
	posts    PostStore
	comments CommentStore
	linker   *Linker
	tx       TxRunner
	pub      events.Publisher
	recent   *recentPosts
}

func NewCommentService(d Deps) *CommentService {
	d.fill()
	return &CommentService{
		users:    d.Users,
		posts:    d.Posts,
		comments: d.Comments,
		linker:   NewLinker(d.Refs),
		tx:       d.Tx,
		pub:      d.Events,
		recent:   d.recent,
	}
}

func (s *CommentService) Add(ctx context.Context, p *models.ParamAddComment) (*models.Comment, error) {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return nil, apperr.Invalid("Comment must not be empty")
	}
	postID, err := ParseID(p.PostID)
	if err != nil {
		return nil, err
	}
	authorID, err := ParseID(p.AuthorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, authorID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		PostID:    postID,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.tx.RunInTx(ctx, "add comment", func(ctx context.Context) error {
		if err := s.comments.Create(ctx, c); err != nil {
			return err
		}
		return s.linker.LinkChild(ctx, c.ID,
			models.PostRef(postID, models.FieldComments),
			models.UserRef(authorID, models.FieldComments))
	})
	if err != nil {
		return nil, err
	}

	s.recent.invalidate(ctx)
	s.pub.Publish(events.Event{Type: events.CommentAdded, Payload: events.CommentAddedPayload{
		CommentID: c.ID.Hex(),
		PostID:    postID.Hex(),
		AuthorID:  authorID.Hex(),
		Content:   c.Content,
	}})
	return c, nil
}

// List returns one page of the post's comments, newest first, and the total.
func (s *CommentService) List(ctx context.Context, postID primitive.ObjectID, page models.Page) ([]*models.CommentView, int64, error) {
	page = page.Normalize()
	comments, err := s.comments.ListByPost(ctx, postID, page.Skip(), page.Limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.comments.CountByPost(ctx, postID)
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
