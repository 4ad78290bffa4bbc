package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	NotFound
	Conflict
	Forbidden
	UpstreamMedia
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Forbidden:
		return "forbidden"
	case UpstreamMedia:
		return "upstream_media"
	default:
		return "internal"
	}
}

// Status is the HTTP status a response for this kind carries.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Forbidden:
		return http.StatusForbidden
	case UpstreamMedia:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure whose Msg is safe to show to clients.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Invalid builds an ad-hoc validation error.
func Invalid(msg string) error {
	return errors.WithStack(New(Validation, msg))
}

// KindOf reports the kind of the first *Error in err's chain. Unclassified
// errors are Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message returns the client-facing message for err. Internal errors never
// leak their text.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Msg
	}
	return "Internal server error"
}

var (
	// user; clients of /user/create expect 400 for a taken email
	ErrUserExists   = New(Validation, "User already exists")
	ErrUserNotFound = New(NotFound, "User does not exist")

	// community
	ErrCommunityExists   = New(Conflict, "Community already exists")
	ErrCommunityNotFound = New(NotFound, "Community does not exist")

	// post
	ErrPostNotFound  = New(NotFound, "Post does not exist")
	ErrNotPostAuthor = New(Forbidden, "Only the author can modify this post")
	ErrNoPostsFound  = New(NotFound, "No posts found")
	ErrNothingToEdit = New(Validation, "Nothing to update")

	// vote
	ErrVoteNotFound = New(NotFound, "Vote does not exist")
	ErrInvalidVote  = New(Validation, "Invalid vote")

	// media
	ErrFileRequired       = New(Validation, "File is required")
	ErrFileTooLarge       = New(Validation, "File is too large")
	ErrImageOnly          = New(Validation, "Only image files are accepted")
	ErrImageOrVideoOnly   = New(Validation, "Only image and video files are accepted")
	ErrMediaUpload        = New(UpstreamMedia, "Media upload failed")
	ErrMediaNotConfigured = New(UpstreamMedia, "Media host is not configured")

	// common
	ErrInvalidID = New(Validation, "Invalid id")
)
