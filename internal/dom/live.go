package dom

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// LivePage implements Document over a chromedp tab context. Elements are
// addressed as (selector, index) pairs and every operation is a single JS
// evaluation in the page, so the handle stays valid as long as the matched
// node does. A handle whose node has since been removed degrades to no-op
// results, which the filler treats as an unmatched field.
type LivePage struct {
	ctx context.Context
}

// NewLivePage wraps an existing chromedp tab context.
func NewLivePage(ctx context.Context) *LivePage {
	return &LivePage{ctx: ctx}
}

func (p *LivePage) eval(js string, res interface{}) error {
	return chromedp.Run(p.ctx, chromedp.Evaluate(js, res))
}

// QueryAll implements Document. Invalid selectors match nothing.
func (p *LivePage) QueryAll(selector string) ([]Element, error) {
	sel, _ := json.Marshal(selector)
	var count int
	js := fmt.Sprintf(`(() => { try { return document.querySelectorAll(%s).length; } catch (e) { return 0; } })()`, sel)
	if err := p.eval(js, &count); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	out := make([]Element, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &liveElement{page: p, selector: selector, index: i})
	}
	return out, nil
}

type liveElement struct {
	page     *LivePage
	selector string
	index    int
}

// js wraps body in an IIFE that resolves this element first. body sees the
// element as `el` and must return a JSON-serializable value.
func (e *liveElement) js(body string) string {
	sel, _ := json.Marshal(e.selector)
	return fmt.Sprintf(`(() => { try {
		const el = document.querySelectorAll(%s)[%d];
		if (!el) return null;
		%s
	} catch (err) { return null; } })()`, sel, e.index, body)
}

func (e *liveElement) Kind() ControlKind {
	var kind string
	_ = e.page.eval(e.js(`
		const tag = el.tagName.toLowerCase();
		if (tag === 'select') return 'select';
		const typ = (el.type || '').toLowerCase();
		if (typ === 'checkbox' || typ === 'radio') return 'checkbox';
		return 'text';`), &kind)
	if kind == "" {
		return KindText
	}
	return ControlKind(kind)
}

func (e *liveElement) Value() string {
	var v string
	_ = e.page.eval(e.js(`return el.value || '';`), &v)
	return v
}

func (e *liveElement) SetValue(v string) error {
	val, _ := json.Marshal(v)
	var ok bool
	err := e.page.eval(e.js(fmt.Sprintf(`
		el.value = %s;
		el.dispatchEvent(new Event('input', { bubbles: true }));
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;`, val)), &ok)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element %q[%d] is gone", e.selector, e.index)
	}
	return nil
}

func (e *liveElement) Options() ([]Option, error) {
	var opts []struct {
		Value string `json:"value"`
		Text  string `json:"text"`
	}
	err := e.page.eval(e.js(`
		if (!el.options) return [];
		return Array.from(el.options).map(o => ({ value: o.value, text: o.text }));`), &opts)
	if err != nil {
		return nil, err
	}
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = Option{Value: o.Value, Text: o.Text}
	}
	return out, nil
}

func (e *liveElement) SelectOption(value string) error {
	val, _ := json.Marshal(value)
	var ok bool
	err := e.page.eval(e.js(fmt.Sprintf(`
		el.value = %s;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;`, val)), &ok)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element %q[%d] is gone", e.selector, e.index)
	}
	return nil
}

func (e *liveElement) Checked() bool {
	var checked bool
	_ = e.page.eval(e.js(`return !!el.checked;`), &checked)
	return checked
}

func (e *liveElement) SetChecked(checked bool) error {
	var ok bool
	err := e.page.eval(e.js(fmt.Sprintf(`
		el.checked = %t;
		el.dispatchEvent(new Event('change', { bubbles: true }));
		return true;`, checked)), &ok)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("element %q[%d] is gone", e.selector, e.index)
	}
	return nil
}

func (e *liveElement) LabelText() string {
	var text string
	_ = e.page.eval(e.js(`
		if (el.id) {
			const label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (label) return label.textContent.trim();
		}
		const enclosing = el.closest('label');
		if (enclosing) return enclosing.textContent.trim();
		const sibling = el.nextElementSibling;
		return sibling ? (sibling.textContent || '').trim() : '';`), &text)
	return text
}

func (e *liveElement) Text() string {
	var text string
	_ = e.page.eval(e.js(`return (el.textContent || '').trim();`), &text)
	return text
}

func (e *liveElement) Highlight() error {
	var ok bool
	return e.page.eval(e.js(`
		el.style.backgroundColor = '#e6ffed';
		el.style.border = '2px solid #28a745';
		return true;`), &ok)
}
