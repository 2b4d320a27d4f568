package coordinator

import (
	"context"
	"errors"

	"autoapply/internal/bridge"
	"autoapply/internal/domain"
)

// ErrPageContextOnly marks message kinds that only a page session can
// service, because they need access to the live DOM.
var ErrPageContextOnly = errors.New("message kind requires a page context")

// Handle implements bridge.Handler for the state-owning half of the message
// vocabulary. fill-form is rejected here: the coordinator never touches a
// DOM, so page sessions intercept that kind before delegating the rest.
func (c *Coordinator) Handle(ctx context.Context, req bridge.Request) (bridge.Response, error) {
	switch req.Kind {
	case bridge.KindGetProfile:
		p, err := c.Profile(ctx)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, p), nil

	case bridge.KindUpdateProfile:
		var p domain.UserProfile
		if err := bridge.DecodePayload(req, &p); err != nil {
			return bridge.Response{}, err
		}
		if err := c.UpdateProfile(ctx, p); err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, nil), nil

	case bridge.KindGetSettings:
		s, err := c.Settings(ctx)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, s), nil

	case bridge.KindUpdateSettings:
		var patch domain.SettingsPatch
		if err := bridge.DecodePayload(req, &patch); err != nil {
			return bridge.Response{}, err
		}
		s, err := c.UpdateSettings(ctx, patch)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, s), nil

	case bridge.KindSaveApplication:
		var posting domain.JobPosting
		if err := bridge.DecodePayload(req, &posting); err != nil {
			return bridge.Response{}, err
		}
		rec, err := c.RecordApplication(ctx, posting)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, rec), nil

	case bridge.KindCheckAutoApply:
		ok, err := c.CanAutoApply(ctx)
		if err != nil {
			return bridge.Response{}, err
		}
		return bridge.OK(req.ID, map[string]bool{"canAutoApply": ok}), nil

	case bridge.KindFillForm:
		return bridge.Response{}, ErrPageContextOnly

	default:
		return bridge.Response{}, bridge.ErrUnknownKind
	}
}
