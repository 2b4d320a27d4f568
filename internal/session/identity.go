package session

import "sync"

// Identity rotates the browser fingerprint handed to each new tab: a user
// agent always, a proxy server when any are configured. Job sites throttle
// repeated automation from a single fingerprint, so tabs cycle through the
// pool sequentially.
type Identity struct {
	userAgents []string
	proxies    []string

	mu         sync.Mutex
	uaIndex    int
	proxyIndex int
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// NewIdentity builds a rotation pool. proxies may be empty, in which case
// Proxy always reports a direct connection.
func NewIdentity(proxies []string) *Identity {
	return &Identity{
		userAgents: defaultUserAgents,
		proxies:    proxies,
	}
}

// UserAgent returns the next user agent in the rotation.
func (id *Identity) UserAgent() string {
	id.mu.Lock()
	defer id.mu.Unlock()
	ua := id.userAgents[id.uaIndex]
	id.uaIndex = (id.uaIndex + 1) % len(id.userAgents)
	return ua
}

// Proxy returns the next proxy server, or "" when none are configured.
func (id *Identity) Proxy() string {
	if len(id.proxies) == 0 {
		return ""
	}
	id.mu.Lock()
	defer id.mu.Unlock()
	p := id.proxies[id.proxyIndex]
	id.proxyIndex = (id.proxyIndex + 1) % len(id.proxies)
	return p
}
