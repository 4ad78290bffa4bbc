package media

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"reddit/apperr"
	"reddit/logger"
)

// Policy bounds what an upload slot accepts.
type Policy struct {
	MaxBytes int64
	accept   func(mime string) bool
	reject   error
}

func ImagePolicy(maxBytes int64) Policy {
	return Policy{
		MaxBytes: maxBytes,
		accept:   func(m string) bool { return strings.HasPrefix(m, "image/") },
		reject:   apperr.ErrImageOnly,
	}
}

func PostMediaPolicy(maxBytes int64) Policy {
	return Policy{
		MaxBytes: maxBytes,
		accept: func(m string) bool {
			return strings.HasPrefix(m, "image/") || strings.HasPrefix(m, "video/")
		},
		reject: apperr.ErrImageOrVideoOnly,
	}
}

// Stager copies multipart uploads into a local staging directory.
type Stager struct {
	dir string
}

func NewStager(dir string) (*Stager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "media: create staging dir %s", dir)
	}
	return &Stager{dir: dir}, nil
}

// Stage writes fh to disk and checks it against p. On error nothing is left
// behind; on success the caller owns the file and must Release it.
func (s *Stager) Stage(fh *multipart.FileHeader, p Policy) (*Staged, error) {
	if fh == nil {
		return nil, errors.WithStack(apperr.ErrFileRequired)
	}
	if p.MaxBytes > 0 && fh.Size > p.MaxBytes {
		return nil, errors.WithStack(apperr.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "media: open upload")
	}
	defer src.Close()

	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	staged := &Staged{Path: filepath.Join(s.dir, name)}

	dst, err := os.Create(staged.Path)
	if err != nil {
		return nil, errors.Wrap(err, "media: create staged file")
	}
	var r io.Reader = src
	if p.MaxBytes > 0 {
		r = io.LimitReader(src, p.MaxBytes+1)
	}
	staged.Size, err = io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		staged.Release()
		return nil, errors.Wrap(err, "media: write staged file")
	}
	if p.MaxBytes > 0 && staged.Size > p.MaxBytes {
		staged.Release()
		return nil, errors.WithStack(apperr.ErrFileTooLarge)
	}

	mt, err := mimetype.DetectFile(staged.Path)
	if err != nil {
		staged.Release()
		return nil, errors.Wrap(err, "media: detect content type")
	}
	staged.ContentType = mt.String()
	if p.accept != nil && !p.accept(staged.ContentType) {
		staged.Release()
		return nil, errors.WithStack(p.reject)
	}
	return staged, nil
}

// Staged is an upload sitting in the staging directory.
type Staged struct {
	Path        string
	ContentType string
	Size        int64

	once sync.Once
}

// ResourceType is the media host's resource class for the file.
func (s *Staged) ResourceType() string {
	if strings.HasPrefix(s.ContentType, "video/") {
		return "video"
	}
	return "image"
}

// Release deletes the staged file. Only the first call does anything and a
// nil receiver is allowed so callers can defer it unconditionally.
func (s *Staged) Release() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
			logger.Errorf("media: remove staged file %s: %v", s.Path, err)
		}
	})
}
