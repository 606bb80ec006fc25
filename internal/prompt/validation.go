package prompt

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ValidateNotEmpty returns an error if the string is empty or whitespace-only.
func ValidateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value cannot be empty")
	}
	return nil
}

// ValidateOptionalURL accepts an empty string or an absolute http(s) URL.
func ValidateOptionalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an http:// or https:// URL")
	}
	return nil
}

// ValidateOptionalMongoURI accepts an empty string or a mongodb connection
// string.
func ValidateOptionalMongoURI(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "mongodb://") && !strings.HasPrefix(s, "mongodb+srv://") {
		return errors.New("must start with mongodb:// or mongodb+srv://")
	}
	return nil
}

// ValidateEmail does a shape check only.
func ValidateEmail(s string) error {
	s = strings.TrimSpace(s)
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 || strings.ContainsAny(s, " \t") {
		return errors.New("not an email address")
	}
	return nil
}

// ValidateMinLength returns a validator requiring at least n characters.
func ValidateMinLength(n int) func(string) error {
	return func(s string) error {
		if len([]rune(s)) < n {
			return fmt.Errorf("must be at least %d characters", n)
		}
		return nil
	}
}
