package headless

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/lantw44/ceiba-dl/internal/renderer"
	"golang.org/x/net/publicsuffix"
)

type cookieKey struct {
	name   string
	domain string
	path   string
}

type cookieAttrs struct {
	value    string
	secure   bool
	httpOnly bool
}

// Jar is a cookie jar that also remembers the attributes net/http/cookiejar
// does not report back, most importantly HttpOnly.
type Jar struct {
	*cookiejar.Jar

	mu    sync.Mutex
	attrs map[cookieKey]cookieAttrs
}

// NewJar creates an empty jar using the public suffix list.
func NewJar() (*Jar, error) {
	inner, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Jar{Jar: inner, attrs: make(map[cookieKey]cookieAttrs)}, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.Jar.SetCookies(u, cookies)

	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now()
	for _, c := range cookies {
		key := cookieKey{
			name:   c.Name,
			domain: cookieDomain(u, c),
			path:   cookiePath(u, c),
		}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(j.attrs, key)
			continue
		}
		j.attrs[key] = cookieAttrs{value: c.Value, secure: c.Secure, httpOnly: c.HttpOnly}
	}
}

// Entries returns the cookies the jar would send to u, with attributes.
func (j *Jar) Entries(u *url.URL) []renderer.Cookie {
	sent := j.Jar.Cookies(u)

	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]renderer.Cookie, 0, len(sent))
	for _, c := range sent {
		rc := renderer.Cookie{Name: c.Name, Value: c.Value}
		if key, attrs, ok := j.match(u, c.Name, c.Value); ok {
			rc.Domain = key.domain
			rc.Path = key.path
			rc.Secure = attrs.secure
			rc.HTTPOnly = attrs.httpOnly
		}
		out = append(out, rc)
	}
	return out
}

// DocumentCookie returns what document.cookie would read at u.
func (j *Jar) DocumentCookie(u *url.URL) string {
	var parts []string
	for _, c := range j.Entries(u) {
		if c.HTTPOnly {
			continue
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// match finds the most specific recorded cookie for name and value at u.
func (j *Jar) match(u *url.URL, name, value string) (cookieKey, cookieAttrs, bool) {
	host := strings.ToLower(u.Hostname())
	reqPath := u.EscapedPath()
	if reqPath == "" {
		reqPath = "/"
	}

	var (
		best      cookieKey
		bestAttrs cookieAttrs
		found     bool
	)
	for key, attrs := range j.attrs {
		if key.name != name || attrs.value != value {
			continue
		}
		if !domainMatch(host, key.domain) || !pathMatch(reqPath, key.path) {
			continue
		}
		if found && !moreSpecific(key, best) {
			continue
		}
		best, bestAttrs, found = key, attrs, true
	}
	return best, bestAttrs, found
}

// moreSpecific orders cookies by path length, then by domain length.
func moreSpecific(a, b cookieKey) bool {
	if len(a.path) != len(b.path) {
		return len(a.path) > len(b.path)
	}
	return len(a.domain) > len(b.domain)
}

func cookieDomain(u *url.URL, c *http.Cookie) string {
	domain := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	if domain == "" {
		domain = strings.ToLower(u.Hostname())
	}
	return domain
}

func cookiePath(u *url.URL, c *http.Cookie) string {
	if strings.HasPrefix(c.Path, "/") {
		return c.Path
	}
	// RFC 6265 section 5.1.4 default-path
	p := u.EscapedPath()
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}
	return p[:i]
}

func domainMatch(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func pathMatch(reqPath, cookiePath string) bool {
	if reqPath == cookiePath {
		return true
	}
	if !strings.HasPrefix(reqPath, cookiePath) {
		return false
	}
	return strings.HasSuffix(cookiePath, "/") || reqPath[len(cookiePath)] == '/'
}
