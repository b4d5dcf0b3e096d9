package dashboard

import (
	"net/url"
	"strings"
	"sync"
)

// Location is the address bar collaborator.
type Location interface {
	Hash() string
	Replace(hash string)
}

// DecodeFragment percent-decodes a fragment once. It returns the fragment
// starting at its first '#' and true when decoding changed anything.
// Malformed escapes leave the fragment untouched.
func DecodeFragment(hash string) (string, bool) {
	decoded, err := url.PathUnescape(hash)
	if err != nil || decoded == "" || decoded == hash {
		return hash, false
	}
	if idx := strings.Index(decoded, "#"); idx >= 0 {
		decoded = decoded[idx:]
	}
	return decoded, true
}

// NormalizeLocation replaces a percent-encoded fragment with its decoded
// form. Browsers occasionally deliver double-encoded fragments; this is a
// legacy workaround applied once before the shell initializes.
func NormalizeLocation(loc Location) bool {
	if loc == nil {
		return false
	}
	decoded, changed := DecodeFragment(loc.Hash())
	if !changed {
		return false
	}
	loc.Replace(decoded)
	return true
}

// URLLocation adapts a *url.URL to Location.
type URLLocation struct {
	mu  sync.Mutex
	url *url.URL
}

// NewURLLocation parses raw into a Location.
func NewURLLocation(raw string) (*URLLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &URLLocation{url: u}, nil
}

// Hash returns the fragment with its leading '#', or "".
func (l *URLLocation) Hash() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	frag := l.url.EscapedFragment()
	if frag == "" {
		return ""
	}
	return "#" + frag
}

// Replace sets the raw fragment. hash may carry its leading '#'.
func (l *URLLocation) Replace(hash string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	raw := strings.TrimPrefix(hash, "#")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		l.url.Fragment = raw
		l.url.RawFragment = ""
		return
	}
	l.url.Fragment = decoded
	l.url.RawFragment = raw
}

// String returns the full URL.
func (l *URLLocation) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url.String()
}
