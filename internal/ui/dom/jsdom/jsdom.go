//go:build js && wasm

// Package jsdom implements the dom interfaces against the browser document.
package jsdom

import (
	"syscall/js"

	"github.com/Its-donkey/examdeck/internal/ui/dom"
)

// Document wraps the global browser document.
type Document struct {
	doc js.Value
}

var _ dom.Document = (*Document)(nil)

// New wraps js.Global().document.
func New() *Document {
	return &Document{doc: js.Global().Get("document")}
}

func (d *Document) element(id string) (js.Value, bool) {
	if !d.doc.Truthy() {
		return js.Value{}, false
	}
	el := d.doc.Call("getElementById", id)
	if !el.Truthy() {
		return js.Value{}, false
	}
	return el, true
}

// Select implements dom.Document.
func (d *Document) Select(id string) (dom.Select, bool) {
	el, ok := d.element(id)
	if !ok || el.Get("tagName").String() != "SELECT" {
		return nil, false
	}
	return &selectElement{doc: d.doc, el: el}, true
}

// Container implements dom.Document.
func (d *Document) Container(id string) (dom.Container, bool) {
	el, ok := d.element(id)
	if !ok {
		return nil, false
	}
	return &containerElement{doc: d.doc, el: el}, true
}

// Button implements dom.Document.
func (d *Document) Button(id string) (dom.Button, bool) {
	el, ok := d.element(id)
	if !ok {
		return nil, false
	}
	return &buttonElement{el: el}, true
}

type selectElement struct {
	doc js.Value
	el  js.Value
}

func (s *selectElement) Value() string {
	if s.el.Get("selectedIndex").Int() < 0 {
		return ""
	}
	return s.el.Get("value").String()
}

func (s *selectElement) HasOption(value string) bool {
	opts := s.el.Get("options")
	for i := 0; i < opts.Length(); i++ {
		if opts.Index(i).Get("value").String() == value {
			return true
		}
	}
	return false
}

func (s *selectElement) SelectOption(value string) bool {
	opts := s.el.Get("options")
	found := false
	for i := 0; i < opts.Length(); i++ {
		if opt := opts.Index(i); opt.Get("value").String() == value {
			opt.Set("selected", true)
			found = true
		}
	}
	return found
}

func (s *selectElement) AddOption(text, value string) {
	opt := s.doc.Call("createElement", "option")
	opt.Set("text", text)
	opt.Set("value", value)
	s.el.Call("appendChild", opt)
}

func (s *selectElement) OnChange(fn func()) func() {
	return listen(s.el, "change", fn)
}

type containerElement struct {
	doc js.Value
	el  js.Value
}

func (c *containerElement) RemoveFirstChild() bool {
	first := c.el.Get("firstChild")
	if !first.Truthy() {
		return false
	}
	c.el.Call("removeChild", first)
	return true
}

func (c *containerElement) AppendCard(card dom.Card) {
	title := c.create("h5", dom.CardTitleClass)
	title.Set("textContent", card.Title)
	text := c.create("h6", dom.CardTextClass)
	text.Set("textContent", card.Text)

	body := c.create("div", dom.CardBodyClass)
	body.Call("appendChild", title)
	body.Call("appendChild", text)

	outer := c.create("div", dom.CardClass)
	outer.Call("appendChild", body)
	c.el.Call("appendChild", outer)
}

func (c *containerElement) create(tag, class string) js.Value {
	el := c.doc.Call("createElement", tag)
	el.Set("className", class)
	return el
}

type buttonElement struct {
	el js.Value
}

func (b *buttonElement) OnClick(fn func()) func() {
	return listen(b.el, "click", fn)
}

// listen binds fn as a DOM event listener. fn runs on the event loop and must not block.
func listen(el js.Value, event string, fn func()) func() {
	cb := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn()
		return nil
	})
	el.Call("addEventListener", event, cb)
	return func() {
		el.Call("removeEventListener", event, cb)
		cb.Release()
	}
}
