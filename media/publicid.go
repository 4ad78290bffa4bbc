package media

import (
	"path"
	"regexp"
	"strings"
)

var versionSegment = regexp.MustCompile(`^v\d+/`)

// PublicIDFromURL recovers "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/reddit/posts/abc.jpg.
// It returns "" when the URL is not an upload URL.
func PublicIDFromURL(url string) string {
	_, rest, ok := strings.Cut(url, "/upload/")
	if !ok || rest == "" {
		return ""
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	rest = versionSegment.ReplaceAllString(rest, "")
	return strings.TrimSuffix(rest, path.Ext(rest))
}
