package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	driveFilePathRegex = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)`)
	driveIDRegex       = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// IsAbsoluteURL reports whether s is an absolute http(s) URL with a host
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// DriveFileID extracts the file id from a Google Drive link.
// Supports ".../file/d/<id>/view" and "...?id=<id>" (uc and open links).
func DriveFileID(link string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || !strings.HasSuffix(u.Host, "drive.google.com") {
		return "", false
	}
	if m := driveFilePathRegex.FindStringSubmatch(u.Path); len(m) == 2 {
		return m[1], true
	}
	if id := u.Query().Get("id"); id != "" && driveIDRegex.MatchString(id) {
		return id, true
	}
	return "", false
}

// DirectDriveURL rewrites a Drive share link into the direct download form
// https://drive.google.com/uc?id=<id>. Other URLs are returned unchanged.
func DirectDriveURL(link string) string {
	if id, ok := DriveFileID(link); ok {
		return "https://drive.google.com/uc?id=" + id
	}
	return link
}
