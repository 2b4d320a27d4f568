package session

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"autoapply/internal/coordinator"
	"autoapply/internal/filler"
	"autoapply/internal/monitoring"
	"autoapply/internal/registry"
)

var (
	// ErrUnsupportedSite is returned when the URL's host matches no
	// registry row. Callers treat it as "no fill UI", not as a failure.
	ErrUnsupportedSite = errors.New("unsupported job site")
	// ErrNoApplicationForm is returned when detection never fired within
	// the wait window of a one-shot fill.
	ErrNoApplicationForm = errors.New("no application form detected")
	// ErrSessionNotFound is returned for operations on unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
)

// Config tunes browser behavior.
type Config struct {
	Headless           bool
	PageTimeout        time.Duration
	MutationDebounceMs int
	// ProxyURLs are rotated across tabs; empty means direct connection.
	ProxyURLs []string
}

// Manager owns the Chrome allocator pool and the set of live page sessions.
type Manager struct {
	cfg      Config
	coord    *coordinator.Coordinator
	filler   *filler.Filler
	metrics  *monitoring.Metrics
	logger   *zap.Logger
	identity *Identity

	ctxPool sync.Pool

	mu       sync.Mutex
	sessions map[string]*Session
	nextID   int
}

func NewManager(cfg Config, coord *coordinator.Coordinator, f *filler.Filler, m *monitoring.Metrics, logger *zap.Logger) *Manager {
	mgr := &Manager{
		cfg:      cfg,
		coord:    coord,
		filler:   f,
		metrics:  m,
		logger:   logger,
		identity: NewIdentity(cfg.ProxyURLs),
		sessions: make(map[string]*Session),
	}
	mgr.ctxPool.New = func() interface{} {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(mgr.identity.UserAgent()),
		)
		if proxy := mgr.identity.Proxy(); proxy != "" {
			opts = append(opts, chromedp.ProxyServer(proxy))
		}
		allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
		return allocCtx
	}
	return mgr
}

// Watch opens a persistent session on pageURL: the overlay appears whenever
// detection fires and the in-page buttons drive fills through the bridge.
// Returns the session id.
func (m *Manager) Watch(ctx context.Context, pageURL string) (string, error) {
	s, err := m.open(ctx, pageURL)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.nextID++
	s.id = sessionID(m.nextID)
	m.sessions[s.id] = s
	m.mu.Unlock()

	s.redetect(ctx)
	return s.id, nil
}

// Close tears down a watched session.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	return nil
}

// CloseAll tears down every session; used on shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.close()
	}
}

// Session returns a watched session by id.
func (m *Manager) Session(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// FillOnce is the one-shot flow: navigate, wait for the application page,
// fill (one field or all of them), optionally save the posting, tear down.
// Detection retries within the page-timeout window because many sites render
// the form only after client-side routing settles.
func (m *Manager) FillOnce(ctx context.Context, pageURL, field string, save bool) (*FillOutcome, error) {
	s, err := m.open(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer s.close()

	deadline := time.Now().Add(m.cfg.PageTimeout)
	for !s.detected() {
		if time.Now().After(deadline) {
			return nil, ErrNoApplicationForm
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}

	outcome := &FillOutcome{Site: s.site.Name}
	if field != "" {
		fr, err := s.FillField(ctx, field)
		if err != nil {
			return nil, err
		}
		outcome.Field = &fr
	} else {
		res, err := s.Fill(ctx)
		if err != nil {
			return nil, err
		}
		outcome.Result = res
	}
	if save {
		rec, err := s.SaveJob(ctx)
		if err != nil && !errors.Is(err, coordinator.ErrDuplicateApplication) {
			m.logger.Warn("could not save application after fill", zap.Error(err))
		} else if err == nil {
			outcome.Record = &rec
		}
	}
	return outcome, nil
}

// open creates a tab, installs the bridge binding and mutation observer,
// and navigates to pageURL.
func (m *Manager) open(ctx context.Context, pageURL string) (*Session, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	site := registry.Lookup(parsed.Hostname())
	if site == nil {
		return nil, ErrUnsupportedSite
	}

	allocCtx := m.ctxPool.Get().(context.Context)
	tabCtx, cancel := chromedp.NewContext(allocCtx)

	s := &Session{
		mgr:    m,
		site:   site,
		url:    pageURL,
		tabCtx: tabCtx,
		cancel: func() {
			cancel()
			m.ctxPool.Put(allocCtx)
		},
		logger: m.logger.With(zap.String("site", site.Name), zap.String("url", pageURL)),
	}

	if err := s.start(ctx); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func sessionID(n int) string {
	return "session-" + strconv.Itoa(n)
}
