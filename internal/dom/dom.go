// Package dom abstracts the page DOM behind a small capability interface so
// the detector and filler stay testable without a browser. Two
// implementations exist: Snapshot (goquery, static HTML) and LivePage
// (chromedp, a real Chrome tab).
package dom

// ControlKind is the widget category of a form element. It drives which
// fill strategy the filler applies.
type ControlKind string

const (
	KindText     ControlKind = "text"
	KindSelect   ControlKind = "select"
	KindCheckbox ControlKind = "checkbox"
)

// Option is one entry of a select control.
type Option struct {
	Value string
	Text  string
}

// Document is the queryable page surface. Implementations must treat
// malformed selectors as matching nothing rather than failing the query.
type Document interface {
	// QueryAll returns every element matching selector, in document order.
	QueryAll(selector string) ([]Element, error)
}

// Element is a single form control (or, for extraction, any element).
// Mutating operations on a live page also dispatch the synthetic input and
// change events that framework-bound listeners require.
type Element interface {
	Kind() ControlKind
	// Value returns the control's current value attribute/property.
	Value() string
	// SetValue writes a text-like control's value and fires input + change.
	SetValue(v string) error
	// Options lists a select control's options; empty for other kinds.
	Options() ([]Option, error)
	// SelectOption picks the option with the given value and fires change.
	SelectOption(value string) error
	Checked() bool
	// SetChecked marks a checkbox/radio and fires change.
	SetChecked(checked bool) error
	// LabelText returns the text visually associated with the control: a
	// label[for] match, an enclosing label, or the next sibling's text.
	LabelText() string
	// Text returns the element's trimmed text content.
	Text() string
	// Highlight applies the success visual to an element that was set.
	Highlight() error
}
