// Package subdomain normalizes, validates and allocates the per-account
// subdomain slugs that identify each tenant.
package subdomain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	MinLength = 3
	MaxLength = 30
)

var (
	ErrTooShort     = errors.New("subdomain must be at least 3 characters long")
	ErrTooLong      = errors.New("subdomain must be at most 30 characters long")
	ErrInvalidChars = errors.New("subdomain can only contain lowercase letters, numbers, and Thai characters without spaces or special characters")
	ErrTaken        = errors.New("this subdomain is already taken")
	ErrReserved     = errors.New("this subdomain is reserved and cannot be used")
)

// Slugs may contain ASCII lowercase alphanumerics and Thai letters and
// digits (U+0E01 through U+0E59).
var (
	validSlug  = regexp.MustCompile(`^[a-z0-9ก-๙]+$`)
	slugStrip  = regexp.MustCompile(`[^a-z0-9ก-๙]+`)
	reserved   = map[string]struct{}{}
	reservedIn = []string{
		"admin", "api", "app", "billing", "dashboard", "help", "login",
		"register", "settings", "support", "www", "mail", "blog", "docs",
	}
)

func init() {
	for _, w := range reservedIn {
		reserved[w] = struct{}{}
	}
}

// ExistsFunc reports whether a slug is already allocated. An error means
// the underlying store failed, not that the slug exists.
type ExistsFunc func(slug string) (bool, error)

// Normalize lowercases the name and strips everything that cannot appear
// in a slug, including all whitespace. Empty input yields an empty slug.
// Input is NFC-normalized first so decomposed Thai sequences survive the
// character strip.
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	s := norm.NFC.String(strings.TrimSpace(name))
	s = strings.ToLower(s)
	return slugStrip.ReplaceAllString(s, "")
}

// Validate checks length, charset, reserved words and, through exists,
// uniqueness. A nil return means the slug is usable as-is.
func Validate(slug string, exists ExistsFunc) error {
	if len([]rune(slug)) < MinLength {
		return ErrTooShort
	}
	if len([]rune(slug)) > MaxLength {
		return ErrTooLong
	}
	if !validSlug.MatchString(slug) {
		return ErrInvalidChars
	}
	taken, err := exists(slug)
	if err != nil {
		return fmt.Errorf("failed to check subdomain availability: %w", err)
	}
	if taken {
		return ErrTaken
	}
	if _, ok := reserved[slug]; ok {
		return ErrReserved
	}
	return nil
}

// AllocateUnique returns desired when it validates cleanly. When the only
// problem is a collision it appends an incrementing suffix until a free
// candidate is found. Any other validation failure returns desired
// unchanged so the caller's own validation path reports the proper error.
// The loop is capped; after 100 attempts the low-order digits of the
// current time make the candidate unique.
func AllocateUnique(desired string, exists ExistsFunc) (string, error) {
	candidate := desired
	err := Validate(candidate, exists)

	for counter := 1; err != nil; counter++ {
		switch {
		case errors.Is(err, ErrTaken):
			// keep searching below
		case isFormatError(err):
			return desired, nil
		default:
			return "", err
		}
		if counter > 100 {
			ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
			return desired + ts[len(ts)-6:], nil
		}
		candidate = desired + strconv.Itoa(counter)
		err = Validate(candidate, exists)
	}

	return candidate, nil
}

func isFormatError(err error) bool {
	return errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrTooLong) ||
		errors.Is(err, ErrInvalidChars) ||
		errors.Is(err, ErrReserved)
}
