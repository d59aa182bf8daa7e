// Package adblock decides which outbound requests from the web sessions are
// cancelled. Patterns follow the browser match-pattern shape
// <scheme>://<host><path>, with * as the only wildcard.
package adblock

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yllada/ai-wrapper/common"
)

// DefaultPatterns are the ad and tracking hosts blocked out of the box.
var DefaultPatterns = []string{
	"*://*.doubleclick.net/*",
	"*://*.googleadservices.com/*",
	"*://*.googlesyndication.com/*",
	"*://*.moatads.com/*",
}

// pathSep stands in for "/" while matching paths so that * spans segments.
const pathSep = "∕"

var webSchemes = []string{"http", "https", "ws", "wss"}

// Pattern is one compiled match pattern.
type Pattern struct {
	raw    string
	scheme string
	host   string
	path   string
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// Compile parses a match pattern such as "*://*.example.com/ads/*".
func Compile(raw string) (Pattern, error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || scheme == "" {
		return Pattern{}, fmt.Errorf("%w %q: missing scheme", common.ErrInvalidPattern, raw)
	}
	host, path := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		host, path = rest[:i], rest[i:]
	}
	if host == "" || path == "" {
		return Pattern{}, fmt.Errorf("%w %q: need host and path", common.ErrInvalidPattern, raw)
	}
	if strings.Contains(host, "*") && host != "*" &&
		(!strings.HasPrefix(host, "*.") || strings.Contains(host[2:], "*")) {
		return Pattern{}, fmt.Errorf("%w %q: * in host must be alone or a leading *.", common.ErrInvalidPattern, raw)
	}

	p := Pattern{
		raw:    raw,
		scheme: strings.ToLower(scheme),
		host:   strings.ToLower(host),
		path:   flattenPath(escapeGlob(path)),
	}
	if !doublestar.ValidatePattern(p.path) || !doublestar.ValidatePattern(escapeGlob(p.scheme)) {
		return Pattern{}, fmt.Errorf("%w %q", common.ErrInvalidPattern, raw)
	}
	return p, nil
}

// Match reports whether rawURL falls under the pattern.
func (p Pattern) Match(u *url.URL) bool {
	return p.matchScheme(strings.ToLower(u.Scheme)) &&
		p.matchHost(strings.ToLower(u.Hostname())) &&
		p.matchPath(u)
}

func (p Pattern) matchScheme(scheme string) bool {
	if p.scheme == "*" {
		for _, s := range webSchemes {
			if s == scheme {
				return true
			}
		}
		return false
	}
	ok, _ := doublestar.Match(escapeGlob(p.scheme), scheme)
	return ok
}

func (p Pattern) matchHost(host string) bool {
	switch {
	case p.host == "*":
		return true
	case strings.HasPrefix(p.host, "*."):
		domain := p.host[2:]
		return host == domain || strings.HasSuffix(host, "."+domain)
	default:
		return host == p.host
	}
}

func (p Pattern) matchPath(u *url.URL) bool {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	ok, _ := doublestar.Match(p.path, flattenPath(path))
	return ok
}

// escapeGlob quotes every glob metacharacter except *.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '?', '[', ']', '{', '}', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func flattenPath(s string) string {
	return strings.ReplaceAll(s, "/", pathSep)
}

// Blocklist is a compiled, immutable set of patterns. It is safe for
// concurrent use by every session's request interceptor.
type Blocklist struct {
	patterns []Pattern
	blocked  atomic.Int64
}

// New compiles patterns. Duplicates are dropped.
func New(patterns []string) (*Blocklist, error) {
	b := &Blocklist{}
	for _, raw := range common.DedupeStrings(patterns) {
		p, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		b.patterns = append(b.patterns, p)
	}
	return b, nil
}

// Patterns returns the patterns as written, in order.
func (b *Blocklist) Patterns() []string {
	out := make([]string, len(b.patterns))
	for i, p := range b.patterns {
		out[i] = p.raw
	}
	return out
}

// TriggerPatterns returns the URL patterns an interceptor has to watch so
// that every request Match could block reaches it. A "*." host also yields
// the bare-domain form.
func (b *Blocklist) TriggerPatterns() []string {
	var out []string
	for _, p := range b.patterns {
		out = append(out, p.raw)
		if strings.HasPrefix(p.host, "*.") {
			scheme, rest, _ := strings.Cut(p.raw, "://")
			out = append(out, scheme+"://"+rest[2:])
		}
	}
	return out
}

// Match reports whether rawURL matches any pattern. Unparseable URLs never
// match.
func (b *Blocklist) Match(rawURL string) bool {
	_, ok := b.matching(rawURL)
	return ok
}

// Check is Match plus bookkeeping: a match is counted as a cancelled request
// and the matching pattern is returned.
func (b *Blocklist) Check(rawURL string) (string, bool) {
	p, ok := b.matching(rawURL)
	if ok {
		b.blocked.Add(1)
	}
	return p, ok
}

// Blocked returns how many requests Check has cancelled.
func (b *Blocklist) Blocked() int64 {
	return b.blocked.Load()
}

func (b *Blocklist) matching(rawURL string) (string, bool) {
	if b == nil || len(b.patterns) == 0 {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", false
	}
	for _, p := range b.patterns {
		if p.Match(u) {
			return p.raw, true
		}
	}
	return "", false
}
