// Package filler maps a user profile onto heterogeneous DOM form controls
// using each site's ordered selector-fallback lists. Every field's fill is
// isolated: a failure on one field downgrades that field to unmatched and
// the rest of the form is still processed.
package filler

import (
	"fmt"

	"go.uber.org/zap"

	"autoapply/internal/dom"
	"autoapply/internal/domain"
)

// Filler applies profiles to pages.
type Filler struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Filler {
	return &Filler{logger: logger}
}

// Fill walks every logical field with a non-empty profile value, locates the
// first matching element via the config's selector lists, and applies the
// control-kind-appropriate strategy. Elements that were actually set get the
// success highlight after all fields are processed. Fill only returns an
// error when the document itself is unusable; per-field problems are
// reported inside the result.
func (f *Filler) Fill(doc dom.Document, profile *domain.UserProfile, cfg *domain.FormConfig) (*domain.FillResult, error) {
	if doc == nil {
		return nil, fmt.Errorf("no document to fill")
	}
	if cfg == nil {
		return nil, fmt.Errorf("no form config for this site")
	}

	result := &domain.FillResult{}
	var filled []dom.Element

	for _, fv := range FieldValues(profile) {
		if fv.Value == "" {
			result.Skipped++
			continue
		}
		selectors := cfg.Selectors[fv.Name]
		if len(selectors) == 0 {
			result.Skipped++
			continue
		}
		fieldResult, el := f.fillField(doc, fv.Name, fv.Value, selectors)
		result.Fields = append(result.Fields, fieldResult)
		if fieldResult.Applied {
			result.Filled++
			if el != nil {
				filled = append(filled, el)
			}
		} else {
			result.Missed++
		}
	}

	for _, el := range filled {
		if err := el.Highlight(); err != nil {
			f.logger.Debug("highlight failed", zap.Error(err))
		}
	}
	return result, nil
}

// FillOne applies the same strategy restricted to a single logical field.
// Used by the per-field quick-fill affordance.
func (f *Filler) FillOne(doc dom.Document, profile *domain.UserProfile, cfg *domain.FormConfig, field string) (domain.FieldResult, error) {
	if doc == nil || cfg == nil {
		return domain.FieldResult{Field: field}, fmt.Errorf("no document or config")
	}
	for _, fv := range FieldValues(profile) {
		if fv.Name != field {
			continue
		}
		if fv.Value == "" {
			return domain.FieldResult{Field: field}, nil
		}
		res, el := f.fillField(doc, field, fv.Value, cfg.Selectors[field])
		if res.Applied && el != nil {
			if err := el.Highlight(); err != nil {
				f.logger.Debug("highlight failed", zap.Error(err))
			}
		}
		return res, nil
	}
	return domain.FieldResult{Field: field}, fmt.Errorf("unknown logical field %q", field)
}

// fillField walks the selector list in declared order and stops at the first
// selector that yields at least one element, even when the subsequent value
// application fails — earlier-declared selectors always win. Panics from a
// single field are absorbed and reported as an unmatched field.
func (f *Filler) fillField(doc dom.Document, field, value string, selectors []string) (res domain.FieldResult, el dom.Element) {
	res = domain.FieldResult{Field: field}
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("field fill panicked",
				zap.String("field", field),
				zap.Any("panic", r))
			res.Applied = false
			el = nil
		}
	}()

	for _, selector := range selectors {
		els, err := doc.QueryAll(selector)
		if err != nil {
			f.logger.Debug("selector query failed",
				zap.String("field", field),
				zap.String("selector", selector),
				zap.Error(err))
			continue
		}
		if len(els) == 0 {
			continue
		}

		res.Matched = true
		res.Selector = selector
		applied, target := f.apply(els, value)
		res.Applied = applied
		res.Kind = string(els[0].Kind())
		return res, target
	}
	return res, nil
}

// apply dispatches on the control kind of the matched set. Text and select
// controls use the first element; checkbox/radio scans the set for the
// element whose value or label matches.
func (f *Filler) apply(els []dom.Element, value string) (bool, dom.Element) {
	switch els[0].Kind() {
	case dom.KindSelect:
		return f.applySelect(els[0], value)
	case dom.KindCheckbox:
		return f.applyCheckbox(els, value)
	default:
		el := els[0]
		if err := el.SetValue(value); err != nil {
			return false, nil
		}
		return true, el
	}
}

func (f *Filler) applySelect(el dom.Element, value string) (bool, dom.Element) {
	opts, err := el.Options()
	if err != nil {
		return false, nil
	}
	opt, ok := matchOption(opts, value)
	if !ok {
		// Never force an arbitrary option; leave the prior selection alone.
		return false, nil
	}
	if err := el.SelectOption(opt.Value); err != nil {
		return false, nil
	}
	return true, el
}

func (f *Filler) applyCheckbox(els []dom.Element, value string) (bool, dom.Element) {
	for _, el := range els {
		if el.Kind() != dom.KindCheckbox {
			continue
		}
		if !matchesControl(el, value) {
			continue
		}
		// Existing checked state is never cleared; re-filling an already
		// checked control is a no-op rather than a toggle.
		if !el.Checked() {
			if err := el.SetChecked(true); err != nil {
				return false, nil
			}
		}
		return true, el
	}
	return false, nil
}
