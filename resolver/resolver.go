// Package resolver turns asset paths found in a document into absolute URLs
// relative to the document's own address.
package resolver

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrMissingScheme is returned when a base URL has no scheme.
	ErrMissingScheme = errors.New("missing scheme")

	// ErrMissingHost is returned when a base URL has no host.
	ErrMissingHost = errors.New("missing host")
)

// Error describes a URL that could not be parsed or resolved.
type Error struct {
	URL string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// BaseURL is the absolute address of one document. The zero value is not
// usable; construct with NewBaseURL.
type BaseURL struct {
	u url.URL
}

// NewBaseURL validates raw as an absolute URL with both a scheme and a host.
func NewBaseURL(raw string) (*BaseURL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{URL: raw, Err: unwrapURLError(err)}
	}
	if u.Scheme == "" {
		return nil, &Error{URL: raw, Err: ErrMissingScheme}
	}
	if u.Host == "" {
		return nil, &Error{URL: raw, Err: ErrMissingHost}
	}
	return &BaseURL{u: *u}, nil
}

// URL returns a copy of the underlying URL.
func (b *BaseURL) URL() *url.URL {
	u := b.u
	return &u
}

// Host returns the host component, including any port.
func (b *BaseURL) Host() string {
	return b.u.Host
}

func (b *BaseURL) String() string {
	return b.u.String()
}

// Resolve returns candidate as an absolute URL.
//
// Leading and trailing spaces and C0 controls are trimmed, and tabs and
// newlines anywhere in candidate are removed, as browsers do for attribute
// values. A candidate carrying its own scheme is then returned as is, even
// when it points at another host; http and https candidates must name a host.
// A candidate without a scheme is joined onto base following RFC 3986
// reference resolution. Any other parse failure is returned as an *Error.
func Resolve(candidate string, base *BaseURL) (string, error) {
	cleaned := clean(candidate)
	if !hasScheme(cleaned) && firstSegmentHasColon(cleaned) {
		// "1:foo.png" is a relative path, not scheme "1".
		cleaned = "./" + cleaned
	}

	ref, err := url.Parse(cleaned)
	if err != nil {
		return "", &Error{URL: candidate, Err: unwrapURLError(err)}
	}
	if ref.Scheme != "" {
		if isSpecial(ref.Scheme) && ref.Opaque == "" && ref.Host == "" {
			return "", &Error{URL: candidate, Err: ErrMissingHost}
		}
		return cleaned, nil
	}
	return base.u.ResolveReference(ref).String(), nil
}

func clean(s string) string {
	s = strings.TrimFunc(s, func(r rune) bool { return r <= ' ' })
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}

// hasScheme reports whether s starts with ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ) ":".
func hasScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' || c == '+' || c == '-' || c == '.':
			if i == 0 {
				return false
			}
		case c == ':':
			return i > 0
		default:
			return false
		}
	}
	return false
}

func firstSegmentHasColon(s string) bool {
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	return strings.Contains(s, ":")
}

func isSpecial(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

// unwrapURLError strips the *url.Error envelope, which repeats the input.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
