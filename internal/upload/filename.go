package upload

import (
	"path"
	"regexp"
	"strings"
	"time"
)

// Upload categories, one directory each under the media root.
const (
	CategoryMenuItems   = "menu_items"
	CategoryRestaurant  = "restaurant"
	CategoryAbout       = "about"
	CategoryProfilePics = "profile_pics"
)

const timestampLayout = "20060102150405"

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^a-z0-9_.-]`)
	underscoreRun = regexp.MustCompile(`_+`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9]`)
)

// Path builds "<category>/<name>_<YYYYMMDDHHMMSS>.<ext>" from a display name.
// The result is always relative and contains only [a-z0-9_./-].
func Path(category, displayName, ext string, now time.Time) string {
	return path.Join(category, Filename(displayName, ext, now))
}

// MenuItemImagePath is Path for menu item photos.
func MenuItemImagePath(displayName, ext string, now time.Time) string {
	return Path(CategoryMenuItems, displayName, ext, now)
}

func Filename(displayName, ext string, now time.Time) string {
	name := slug(displayName)
	stamp := now.UTC().Format(timestampLayout)

	ext = nonAlnum.ReplaceAllString(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")), "")
	if ext == "" {
		return name + "_" + stamp
	}
	return name + "_" + stamp + "." + ext
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, "_")
	s = unsafeChars.ReplaceAllString(s, "")
	s = underscoreRun.ReplaceAllString(s, "_")
	// no leading dots, so "..", ".env" and friends cannot appear as a segment
	s = strings.Trim(s, "._-")
	if s == "" {
		return "image"
	}
	return s
}

// Ext returns the extension of an uploaded filename without the dot.
func Ext(filename string) string {
	return strings.TrimPrefix(path.Ext(filename), ".")
}
