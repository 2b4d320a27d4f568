// Package session runs the in-page half of the system: one Session per
// browser tab, holding the chromedp context, the bridge binding the overlay
// calls, and the mutation-driven re-detection loop.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"autoapply/internal/bridge"
	"autoapply/internal/coordinator"
	"autoapply/internal/detect"
	"autoapply/internal/dom"
	"autoapply/internal/domain"
	"autoapply/internal/filler"
	"autoapply/internal/overlay"
	"autoapply/internal/registry"
)

// FillOutcome bundles everything a one-shot fill produced.
type FillOutcome struct {
	Site   string                    `json:"site"`
	Result *domain.FillResult        `json:"result,omitempty"`
	Field  *domain.FieldResult       `json:"field,omitempty"`
	Record *domain.ApplicationRecord `json:"record,omitempty"`
}

// Session is one live tab on a registered job site.
type Session struct {
	mgr    *Manager
	id     string
	site   *registry.Site
	url    string
	tabCtx context.Context
	cancel func()
	logger *zap.Logger

	mu         sync.Mutex
	isAppPage  bool
	closedOnce sync.Once
}

// start installs the bridge binding and the persistent page scripts, then
// navigates. Scripts are registered for new documents first so client-side
// route changes keep the bridge and observer alive.
func (s *Session) start(ctx context.Context) error {
	chromedp.ListenTarget(s.tabCtx, func(ev interface{}) {
		call, ok := ev.(*runtime.EventBindingCalled)
		if !ok || call.Name != overlay.Binding {
			return
		}
		// Never block the event loop; bridge handling runs its own actions.
		go s.onBindingCalled(call.Payload)
	})

	err := chromedp.Run(s.tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			if err := runtime.AddBinding(overlay.Binding).Do(ctx); err != nil {
				return err
			}
			if _, err := page.AddScriptToEvaluateOnNewDocument(overlay.BridgeScript).Do(ctx); err != nil {
				return err
			}
			_, err := page.AddScriptToEvaluateOnNewDocument(
				overlay.ObserverScript(s.mgr.cfg.MutationDebounceMs)).Do(ctx)
			return err
		}),
		chromedp.Navigate(s.url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		// The pre-registered scripts cover future documents; the current one
		// needs them evaluated once. Both are idempotent.
		chromedp.Evaluate(overlay.BridgeScript, nil),
		chromedp.Evaluate(overlay.ObserverScript(s.mgr.cfg.MutationDebounceMs), nil),
	)
	if err != nil {
		return fmt.Errorf("open %s: %w", s.url, err)
	}
	return nil
}

func (s *Session) close() {
	s.closedOnce.Do(s.cancel)
}

// onBindingCalled services one message from the page. The synthetic
// "mutation" kind triggers re-detection; fill-form and save-application are
// handled here because they need the live DOM; everything else delegates to
// the coordinator. Every real request gets exactly one delivered response.
func (s *Session) onBindingCalled(payload string) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), s.mgr.cfg.PageTimeout)
	defer cancelCtx()

	var req bridge.Request
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		s.logger.Warn("undecodable bridge payload", zap.Error(err))
		return
	}

	if req.Kind == "mutation" {
		s.redetect(ctx)
		return
	}

	resp := bridge.Dispatch(ctx, bridge.HandlerFunc(s.handle), req)
	s.deliver(resp)
}

func (s *Session) handle(ctx context.Context, req bridge.Request) (bridge.Response, error) {
	switch req.Kind {
	case bridge.KindFillForm:
		var p struct {
			Field string `json:"field"`
		}
		if len(req.Payload) > 0 {
			if err := json.Unmarshal(req.Payload, &p); err != nil {
				return bridge.Response{}, err
			}
		}
		if p.Field != "" {
			fr, err := s.FillField(ctx, p.Field)
			if err != nil {
				return bridge.Response{}, err
			}
			return bridge.OK(req.ID, fr), nil
		}
		res, err := s.Fill(ctx)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, res), nil

	case bridge.KindSaveApplication:
		rec, err := s.SaveJob(ctx)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, rec), nil

	default:
		return s.mgr.coord.Handle(ctx, req)
	}
}

func (s *Session) deliver(resp bridge.Response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("could not marshal bridge response", zap.Error(err))
		return
	}
	id, _ := json.Marshal(resp.ID)
	js := fmt.Sprintf("window.%s(%s, %s);", overlay.DeliverFn, id, raw)
	if err := chromedp.Run(s.tabCtx, chromedp.Evaluate(js, nil)); err != nil {
		s.logger.Warn("could not deliver bridge response", zap.Error(err))
	}
}

// detected runs one detection pass and records the result.
func (s *Session) detected() bool {
	pg := dom.NewLivePage(s.tabCtx)
	is := detect.IsApplicationPage(&s.site.Form, pg)
	s.mu.Lock()
	was := s.isAppPage
	s.isAppPage = is
	s.mu.Unlock()
	if is && !was {
		s.mgr.metrics.IncDetections(s.site.Name)
	}
	return is
}

// redetect re-evaluates the page and reconciles the overlay. Idempotent:
// overlapping mutation batches can trigger it repeatedly without stacking
// UI elements.
func (s *Session) redetect(ctx context.Context) {
	is := s.detected()

	profile, err := s.mgr.coord.Profile(ctx)
	if err != nil {
		s.logger.Warn("could not load profile for overlay", zap.Error(err))
		return
	}
	if !is || profile.IsZero() {
		if err := chromedp.Run(s.tabCtx, chromedp.Evaluate(overlay.RemoveScript, nil)); err != nil {
			s.logger.Debug("overlay removal failed", zap.Error(err))
		}
		return
	}

	settings, err := s.mgr.coord.Settings(ctx)
	if err != nil {
		s.logger.Warn("could not load settings for overlay", zap.Error(err))
		return
	}
	status := overlay.PanelStatus{
		ApplicationsToday: settings.ApplicationsToday,
		DailyLimit:        settings.DailyApplicationLimit,
		ProfileLoaded:     true,
		PageDetected:      true,
	}
	err = chromedp.Run(s.tabCtx,
		chromedp.Evaluate(overlay.FloatingButtonScript(status), nil),
		chromedp.Evaluate(overlay.QuickFillScript(s.site.Form.Selectors), nil),
	)
	if err != nil {
		s.logger.Warn("overlay injection failed", zap.Error(err))
	}
}

// Fill re-fetches the profile (never cached page-side) and applies it to the
// live DOM. A whole-invocation failure surfaces a single failure toast; a
// partial fill surfaces the summary toast.
func (s *Session) Fill(ctx context.Context) (*domain.FillResult, error) {
	profile, err := s.mgr.coord.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if profile.IsZero() {
		return nil, coordinator.ErrNoProfile
	}

	pg := dom.NewLivePage(s.tabCtx)
	res, err := s.mgr.filler.Fill(pg, profile, &s.site.Form)
	if err != nil {
		s.mgr.metrics.IncErrorsTotal("fill_failed")
		s.notify("AutoApply: could not fill this form", false)
		return nil, err
	}

	s.mgr.metrics.IncFills(s.site.Name)
	s.mgr.metrics.AddFields(s.site.Name, "filled", res.Filled)
	s.mgr.metrics.AddFields(s.site.Name, "missed", res.Missed)
	s.logger.Info("form filled",
		zap.Int("filled", res.Filled),
		zap.Int("missed", res.Missed),
		zap.Int("skipped", res.Skipped))
	s.notify(fmt.Sprintf("AutoApply: filled %d fields (%d not found)", res.Filled, res.Missed), true)
	return res, nil
}

// FillField applies a single logical field, used by the quick-fill buttons.
func (s *Session) FillField(ctx context.Context, field string) (domain.FieldResult, error) {
	profile, err := s.mgr.coord.Profile(ctx)
	if err != nil {
		return domain.FieldResult{}, err
	}
	if profile.IsZero() {
		return domain.FieldResult{}, coordinator.ErrNoProfile
	}
	pg := dom.NewLivePage(s.tabCtx)
	return s.mgr.filler.FillOne(pg, profile, &s.site.Form, field)
}

// SaveJob extracts the posting's identity off the page and records the
// application with the coordinator.
func (s *Session) SaveJob(ctx context.Context) (domain.ApplicationRecord, error) {
	pg := dom.NewLivePage(s.tabCtx)
	posting := filler.ExtractPosting(pg, s.url, s.site.Name)
	rec, err := s.mgr.coord.RecordApplication(ctx, posting)
	if err != nil {
		s.notify("AutoApply: could not save job", false)
		return domain.ApplicationRecord{}, err
	}
	s.logger.Info("application recorded",
		zap.String("title", rec.Title),
		zap.String("company", rec.Company))
	s.notify("AutoApply: job saved to tracker", true)
	return rec, nil
}

func (s *Session) notify(message string, success bool) {
	if err := chromedp.Run(s.tabCtx, chromedp.Evaluate(overlay.NotificationScript(message, success), nil)); err != nil {
		s.logger.Debug("notification failed", zap.Error(err))
	}
}
