package view

import (
	"encoding/json"
	"html/template"
	"sync"
	"time"

	"github.com/studentcatalog/catalog-web/internal/notify"
)

// View is the page surface controllers read from and write to.
type View interface {
	Value(id string) string
	SetValue(id, value string)
	ResetForm(formID string)
	SetHTML(containerID string, html template.HTML)
	ShowPanel(id string)
	HidePanel(id string)
	ScrollIntoView(id string)
	notify.Banner
}

// Status is the state of the status banner.
type Status struct {
	Message string    `json:"message"`
	Class   string    `json:"class"`
	Visible bool      `json:"visible"`
	HideAt  time.Time `json:"hideAt"`
}

type pageState struct {
	Values map[string]string `json:"values"`
	HTML   map[string]string `json:"html"`
	Panels map[string]bool   `json:"panels"`
	Scroll string            `json:"scroll,omitempty"`
	Status Status            `json:"status"`
	Loaded bool              `json:"loaded"`
}

// Page is the in-memory state of one catalog page. It is safe for
// concurrent use; the notification timer writes to it from its own
// goroutine.
type Page struct {
	mu sync.RWMutex
	st pageState
}

var _ View = (*Page)(nil)

func NewPage() *Page {
	return &Page{st: pageState{
		Values: map[string]string{},
		HTML:   map[string]string{},
		Panels: map[string]bool{},
	}}
}

func (p *Page) Value(id string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.Values[id]
}

func (p *Page) SetValue(id, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Values[id] = value
}

func (p *Page) ResetForm(formID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range Forms[formID] {
		delete(p.st.Values, id)
	}
}

func (p *Page) SetHTML(containerID string, html template.HTML) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.HTML[containerID] = string(html)
}

// HTML returns the markup last rendered into a container. The content was
// produced by the render package and is trusted.
func (p *Page) HTML(containerID string) template.HTML {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return template.HTML(p.st.HTML[containerID])
}

func (p *Page) ShowPanel(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Panels[id] = true
}

func (p *Page) HidePanel(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.st.Panels, id)
}

func (p *Page) PanelVisible(id string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.Panels[id]
}

func (p *Page) ScrollIntoView(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Scroll = id
}

// TakeScroll returns and clears the pending scroll target.
func (p *Page) TakeScroll() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.st.Scroll
	p.st.Scroll = ""
	return s
}

func (p *Page) ShowStatus(message, class string, hideAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Status = Status{Message: message, Class: class, Visible: true, HideAt: hideAt}
}

func (p *Page) HideStatus() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Status.Visible = false
}

// Status returns the banner as of now. A banner past its deadline is
// reported hidden even if no timer fired, which happens for pages
// restored from a persistent store.
func (p *Page) Status(now time.Time) Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := p.st.Status
	if s.Visible && !s.HideAt.IsZero() && !now.Before(s.HideAt) {
		s.Visible = false
	}
	return s
}

// Loaded reports whether the baseline loads ran for this page.
func (p *Page) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.st.Loaded
}

func (p *Page) MarkLoaded() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st.Loaded = true
}

func (p *Page) MarshalJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return json.Marshal(p.st)
}

func (p *Page) UnmarshalJSON(b []byte) error {
	var st pageState
	if err := json.Unmarshal(b, &st); err != nil {
		return err
	}
	if st.Values == nil {
		st.Values = map[string]string{}
	}
	if st.HTML == nil {
		st.HTML = map[string]string{}
	}
	if st.Panels == nil {
		st.Panels = map[string]bool{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.st = st
	return nil
}
