// Package htmldoc implements the dom interfaces on top of a parsed HTML tree.
// It backs server-side rendering and lets the controller run outside a browser.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Its-donkey/examdeck/internal/ui/dom"
)

// Document is a goquery document with change and click listeners.
// All reads and writes are serialised, so it may be shared between goroutines.
type Document struct {
	mu       sync.Mutex
	doc      *goquery.Document
	handlers map[string]map[int]func()
	nextID   int
}

var _ dom.Document = (*Document)(nil)

// Parse reads an HTML page.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc, handlers: make(map[string]map[int]func())}, nil
}

// ParseString is Parse for an in-memory page.
func ParseString(page string) (*Document, error) {
	return Parse(strings.NewReader(page))
}

// Render writes the current tree as HTML.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.doc.Nodes {
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}

// String returns the current tree as HTML.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// Find runs a CSS selector against the current tree and returns detached copies of
// the matches, so the result can be read while refreshes keep mutating the page.
func (d *Document) Find(selector string) *goquery.Selection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Find(selector).Clone()
}

// Choose marks the option with the given value as selected in the select with id
// and fires its change listeners, the way a user picking from the dropdown would.
func (d *Document) Choose(id, value string) error {
	d.mu.Lock()
	node := d.lookup(id)
	if node == nil || node.DataAtom != atom.Select {
		d.mu.Unlock()
		return fmt.Errorf("htmldoc: no select with id %q", id)
	}
	found := selectValue(node, value)
	d.mu.Unlock()
	if !found {
		return fmt.Errorf("htmldoc: select %q has no option %q", id, value)
	}
	d.fire(id)
	return nil
}

// Click fires the click listeners registered on the element with id.
func (d *Document) Click(id string) error {
	d.mu.Lock()
	node := d.lookup(id)
	d.mu.Unlock()
	if node == nil {
		return fmt.Errorf("htmldoc: no element with id %q", id)
	}
	d.fire(id)
	return nil
}

// Select implements dom.Document.
func (d *Document) Select(id string) (dom.Select, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.lookup(id)
	if node == nil || node.DataAtom != atom.Select {
		return nil, false
	}
	return &selectElement{doc: d, id: id, node: node}, true
}

// Container implements dom.Document.
func (d *Document) Container(id string) (dom.Container, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	node := d.lookup(id)
	if node == nil {
		return nil, false
	}
	return &containerElement{doc: d, node: node}, true
}

// Button implements dom.Document.
func (d *Document) Button(id string) (dom.Button, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.lookup(id) == nil {
		return nil, false
	}
	return &buttonElement{doc: d, id: id}, true
}

func (d *Document) lookup(id string) *html.Node {
	match := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == id
	})
	if match.Length() == 0 {
		return nil
	}
	return match.Get(0)
}

func (d *Document) listen(id string, fn func()) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	token := d.nextID
	if d.handlers[id] == nil {
		d.handlers[id] = make(map[int]func())
	}
	d.handlers[id][token] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.handlers[id], token)
	}
}

// fire runs listeners in registration order without holding the lock,
// since listeners read the document.
func (d *Document) fire(id string) {
	d.mu.Lock()
	tokens := make([]int, 0, len(d.handlers[id]))
	for token := range d.handlers[id] {
		tokens = append(tokens, token)
	}
	slices.Sort(tokens)
	fns := make([]func(), 0, len(tokens))
	for _, token := range tokens {
		fns = append(fns, d.handlers[id][token])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

type selectElement struct {
	doc  *Document
	id   string
	node *html.Node
}

// Value follows browser semantics: the option marked selected, else the first option.
func (s *selectElement) Value() string {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	opts := options(s.node)
	for _, opt := range opts {
		if hasAttr(opt, "selected") {
			return optionValue(opt)
		}
	}
	if len(opts) > 0 {
		return optionValue(opts[0])
	}
	return ""
}

func (s *selectElement) HasOption(value string) bool {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	for _, opt := range options(s.node) {
		if optionValue(opt) == value {
			return true
		}
	}
	return false
}

// SelectOption marks the matching option selected without firing change listeners.
func (s *selectElement) SelectOption(value string) bool {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	return selectValue(s.node, value)
}

// selectValue selects the option with value, leaving the select untouched when
// there is none. Selecting each match in turn leaves the last one selected.
func selectValue(node *html.Node, value string) bool {
	var match *html.Node
	for _, opt := range options(node) {
		if optionValue(opt) == value {
			match = opt
		}
	}
	if match == nil {
		return false
	}
	for _, opt := range options(node) {
		removeAttr(opt, "selected")
	}
	match.Attr = append(match.Attr, html.Attribute{Key: "selected", Val: "selected"})
	return true
}

func (s *selectElement) AddOption(text, value string) {
	s.doc.mu.Lock()
	defer s.doc.mu.Unlock()
	opt := element(atom.Option, "", html.Attribute{Key: "value", Val: value})
	opt.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	s.node.AppendChild(opt)
}

func (s *selectElement) OnChange(fn func()) func() {
	return s.doc.listen(s.id, fn)
}

type containerElement struct {
	doc  *Document
	node *html.Node
}

func (c *containerElement) RemoveFirstChild() bool {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	first := c.node.FirstChild
	if first == nil {
		return false
	}
	c.node.RemoveChild(first)
	return true
}

func (c *containerElement) AppendCard(card dom.Card) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()

	title := element(atom.H5, dom.CardTitleClass)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: card.Title})
	text := element(atom.H6, dom.CardTextClass)
	text.AppendChild(&html.Node{Type: html.TextNode, Data: card.Text})

	body := element(atom.Div, dom.CardBodyClass)
	body.AppendChild(title)
	body.AppendChild(text)

	outer := element(atom.Div, dom.CardClass)
	outer.AppendChild(body)
	c.node.AppendChild(outer)
}

type buttonElement struct {
	doc *Document
	id  string
}

func (b *buttonElement) OnClick(fn func()) func() {
	return b.doc.listen(b.id, fn)
}

func element(tag atom.Atom, class string, attrs ...html.Attribute) *html.Node {
	if class != "" {
		attrs = append([]html.Attribute{{Key: "class", Val: class}}, attrs...)
	}
	return &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String(), Attr: attrs}
}

// options returns the <option> descendants of a select, including those inside <optgroup>.
func options(sel *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Option:
				out = append(out, c)
			case atom.Optgroup:
				walk(c)
			}
		}
	}
	walk(sel)
	return out
}

// optionValue mirrors HTMLOptionElement.value: the value attribute, else the text.
func optionValue(opt *html.Node) string {
	for _, a := range opt.Attr {
		if a.Key == "value" {
			return a.Val
		}
	}
	return strings.TrimSpace(goquery.NewDocumentFromNode(opt).Text())
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}
