package dom

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Event records a synthetic DOM event dispatched against a Snapshot. Live
// pages dispatch real events; the snapshot keeps a log instead so tests can
// assert on what would have fired.
type Event struct {
	Type   string // "input", "change"
	Target string // the element's description (tag plus name/id when present)
}

// Snapshot is a static, mutable DOM built from an HTML string. Mutations are
// stored as attributes on the parsed tree, which is enough for detection,
// extraction, and filler tests. Not safe for concurrent use.
type Snapshot struct {
	doc    *goquery.Document
	events []Event
}

// NewSnapshot parses html into a queryable document.
func NewSnapshot(html string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &Snapshot{doc: doc}, nil
}

// QueryAll implements Document. goquery compiles selectors leniently: a
// malformed selector matches nothing, which is exactly the tolerance the
// filler's per-field isolation expects.
func (s *Snapshot) QueryAll(selector string) ([]Element, error) {
	var out []Element
	s.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, &snapElement{snap: s, sel: sel})
	})
	return out, nil
}

// Events returns the synthetic events dispatched so far, in order.
func (s *Snapshot) Events() []Event {
	return s.events
}

func (s *Snapshot) record(typ string, sel *goquery.Selection) {
	s.events = append(s.events, Event{Type: typ, Target: describe(sel)})
}

func describe(sel *goquery.Selection) string {
	tag := goquery.NodeName(sel)
	if name, ok := sel.Attr("name"); ok {
		return tag + `[name="` + name + `"]`
	}
	if id, ok := sel.Attr("id"); ok {
		return tag + "#" + id
	}
	return tag
}

type snapElement struct {
	snap *Snapshot
	sel  *goquery.Selection
}

func (e *snapElement) Kind() ControlKind {
	switch goquery.NodeName(e.sel) {
	case "select":
		return KindSelect
	case "input":
		typ, _ := e.sel.Attr("type")
		switch strings.ToLower(typ) {
		case "checkbox", "radio":
			return KindCheckbox
		}
	}
	return KindText
}

func (e *snapElement) Value() string {
	if goquery.NodeName(e.sel) == "textarea" {
		if v, ok := e.sel.Attr("value"); ok {
			return v
		}
		return strings.TrimSpace(e.sel.Text())
	}
	v, _ := e.sel.Attr("value")
	return v
}

func (e *snapElement) SetValue(v string) error {
	e.sel.SetAttr("value", v)
	e.snap.record("input", e.sel)
	e.snap.record("change", e.sel)
	return nil
}

func (e *snapElement) Options() ([]Option, error) {
	var opts []Option
	e.sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		text := strings.TrimSpace(o.Text())
		value, ok := o.Attr("value")
		if !ok {
			value = text
		}
		opts = append(opts, Option{Value: value, Text: text})
	})
	return opts, nil
}

func (e *snapElement) SelectOption(value string) error {
	e.sel.SetAttr("value", value)
	e.sel.Find("option").Each(func(_ int, o *goquery.Selection) {
		v, ok := o.Attr("value")
		if !ok {
			v = strings.TrimSpace(o.Text())
		}
		if v == value {
			o.SetAttr("selected", "selected")
		} else {
			o.RemoveAttr("selected")
		}
	})
	e.snap.record("change", e.sel)
	return nil
}

func (e *snapElement) Checked() bool {
	_, ok := e.sel.Attr("checked")
	return ok
}

func (e *snapElement) SetChecked(checked bool) error {
	if checked {
		e.sel.SetAttr("checked", "checked")
	} else {
		e.sel.RemoveAttr("checked")
	}
	e.snap.record("change", e.sel)
	return nil
}

func (e *snapElement) LabelText() string {
	if id, ok := e.sel.Attr("id"); ok && id != "" {
		label := e.snap.doc.Find(`label[for="` + id + `"]`)
		if label.Length() > 0 {
			return strings.TrimSpace(label.First().Text())
		}
	}
	if enclosing := e.sel.Closest("label"); enclosing.Length() > 0 {
		return strings.TrimSpace(enclosing.First().Text())
	}
	return strings.TrimSpace(e.sel.Next().Text())
}

func (e *snapElement) Text() string {
	return strings.TrimSpace(e.sel.Text())
}

func (e *snapElement) Highlight() error {
	e.sel.SetAttr("data-autoapply-filled", "true")
	return nil
}
