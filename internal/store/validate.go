package store

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// Validation limits for content fields.
const (
	maxTitleLen       = 300
	maxDescriptionLen = 1_000
	maxContentLen     = 100_000
	maxDurationLen    = 32
	maxURLLen         = 2_048
)

// validateText checks a required text field after trimming.
func validateText(field, value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return invalid(field, "is required")
	}
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "is too long")
	}
	return nil
}

// validateStudyText checks the three required study fields in form order.
func validateStudyText(title, description, content string) error {
	if err := validateText("title", title, maxTitleLen); err != nil {
		return err
	}
	if err := validateText("description", description, maxDescriptionLen); err != nil {
		return err
	}
	return validateText("content", content, maxContentLen)
}

// validateVideoFields checks required and optional video fields.
func validateVideoFields(v videoText) error {
	if err := validateText("title", v.title, maxTitleLen); err != nil {
		return err
	}
	if err := validateText("description", v.description, maxDescriptionLen); err != nil {
		return err
	}
	if utf8.RuneCountInString(v.content) > maxContentLen {
		return invalid("content", "is too long")
	}
	if v.duration != nil && utf8.RuneCountInString(*v.duration) > maxDurationLen {
		return invalid("duration", "is too long")
	}
	if err := validateURL("thumbnail_url", v.thumbnailURL); err != nil {
		return err
	}
	return validateURL("video_url", v.videoURL)
}

type videoText struct {
	title, description, content string
	duration, thumbnailURL      *string
	videoURL                    *string
}

// validateURL accepts nil or an absolute http(s) URL.
func validateURL(field string, raw *string) error {
	if raw == nil {
		return nil
	}
	if len(*raw) > maxURLLen {
		return invalid(field, "is too long")
	}
	u, err := url.Parse(*raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid(field, "must be an absolute http(s) URL")
	}
	return nil
}
