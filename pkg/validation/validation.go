// Package validation checks inbound payloads before they reach the store.
// Limits are process-wide and set once at startup.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rajdev-xr/spire-thread-nexus/pkg/models"
)

// Rules bounds inbound payload sizes. Zero values fall back to defaults.
type Rules struct {
	MaxTitleLen    int
	MaxSegmentLen  int
	MaxSegments    int
	MaxTags        int
	MaxTagLen      int
	MaxNameLen     int
	MinPasswordLen int
}

var rules = Rules{
	MaxTitleLen:    200,
	MaxSegmentLen:  5000,
	MaxSegments:    50,
	MaxTags:        10,
	MaxTagLen:      40,
	MaxNameLen:     80,
	MinPasswordLen: 6,
}

// SetRules replaces the process-wide limits. Zero fields keep their
// previous values.
func SetRules(r Rules) {
	if r.MaxTitleLen > 0 {
		rules.MaxTitleLen = r.MaxTitleLen
	}
	if r.MaxSegmentLen > 0 {
		rules.MaxSegmentLen = r.MaxSegmentLen
	}
	if r.MaxSegments > 0 {
		rules.MaxSegments = r.MaxSegments
	}
	if r.MaxTags > 0 {
		rules.MaxTags = r.MaxTags
	}
	if r.MaxTagLen > 0 {
		rules.MaxTagLen = r.MaxTagLen
	}
	if r.MaxNameLen > 0 {
		rules.MaxNameLen = r.MaxNameLen
	}
	if r.MinPasswordLen > 0 {
		rules.MinPasswordLen = r.MinPasswordLen
	}
}

func titleErrs(title string) []string {
	var errs []string
	if strings.TrimSpace(title) == "" {
		errs = append(errs, "title is required")
	}
	if len(title) > rules.MaxTitleLen {
		errs = append(errs, fmt.Sprintf("title too long: %d > %d", len(title), rules.MaxTitleLen))
	}
	return errs
}

func segmentErrs(segments []models.ThreadSegment) []string {
	var errs []string
	if len(segments) > rules.MaxSegments {
		errs = append(errs, fmt.Sprintf("too many segments: %d > %d", len(segments), rules.MaxSegments))
	}
	for i, seg := range segments {
		if strings.TrimSpace(seg.Content) == "" {
			errs = append(errs, fmt.Sprintf("segment %d is empty", i+1))
		}
		if len(seg.Content) > rules.MaxSegmentLen {
			errs = append(errs, fmt.Sprintf("segment %d too long: %d > %d", i+1, len(seg.Content), rules.MaxSegmentLen))
		}
	}
	return errs
}

func tagErrs(tags []string) []string {
	var errs []string
	if len(tags) > rules.MaxTags {
		errs = append(errs, fmt.Sprintf("too many tags: %d > %d", len(tags), rules.MaxTags))
	}
	for _, tg := range tags {
		if strings.TrimSpace(tg) == "" {
			errs = append(errs, "empty tag")
		}
		if len(tg) > rules.MaxTagLen {
			errs = append(errs, fmt.Sprintf("tag too long: %q", tg))
		}
	}
	return errs
}

func joinErrs(errs []string) error {
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// ValidateThreadInput checks a thread create payload.
func ValidateThreadInput(title string, segments []models.ThreadSegment, tags []string) error {
	var errs []string
	errs = append(errs, titleErrs(title)...)
	errs = append(errs, segmentErrs(segments)...)
	errs = append(errs, tagErrs(tags)...)
	return joinErrs(errs)
}

// ValidateThreadPatch checks a partial thread update. A nil title means
// the title is untouched and skips its checks.
func ValidateThreadPatch(title *string, segments []models.ThreadSegment, tags []string) error {
	var errs []string
	if title != nil {
		errs = append(errs, titleErrs(*title)...)
	}
	errs = append(errs, segmentErrs(segments)...)
	errs = append(errs, tagErrs(tags)...)
	return joinErrs(errs)
}

// ValidateCollectionName checks a collection create/rename payload.
func ValidateCollectionName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name is required")
	}
	if len(name) > rules.MaxNameLen {
		return fmt.Errorf("name too long: %d > %d", len(name), rules.MaxNameLen)
	}
	return nil
}

// ValidateRegistration checks a register payload.
func ValidateRegistration(name, email, password string) error {
	var errs []string
	if strings.TrimSpace(name) == "" {
		errs = append(errs, "name is required")
	}
	if len(name) > rules.MaxNameLen {
		errs = append(errs, fmt.Sprintf("name too long: %d > %d", len(name), rules.MaxNameLen))
	}
	if !validEmail(email) {
		errs = append(errs, "invalid email")
	}
	if len(password) < rules.MinPasswordLen {
		errs = append(errs, fmt.Sprintf("password too short: minimum %d characters", rules.MinPasswordLen))
	}
	return joinErrs(errs)
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}
