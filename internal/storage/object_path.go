package storage

import (
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// buildObjectPath produces a collision-free key like
// "resumes/2026/08/<name>-<uuid>.<ext>". Every key carries a random
// suffix so repeated saves under the same base name never overwrite
// earlier objects.
func buildObjectPath(category, baseName, extension string) string {
	category = strings.Trim(strings.TrimSpace(category), "/")
	if category == "" {
		category = "misc"
	}

	baseName = sanitizeName(baseName)
	if baseName == "" {
		baseName = uuid.NewString()
	} else {
		baseName = baseName + "-" + uuid.NewString()
	}

	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	name := baseName
	if extension != "" {
		name = baseName + "." + extension
	}

	now := time.Now().UTC()
	return path.Join(category, now.Format("2006"), now.Format("01"), name)
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, path.Ext(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func detectContentType(extension string) string {
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if extension == "" {
		return ""
	}
	return mime.TypeByExtension("." + extension)
}
