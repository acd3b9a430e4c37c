package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studentcatalog/catalog-web/internal/controller"
	"github.com/studentcatalog/catalog-web/internal/diagnostics"
	"github.com/studentcatalog/catalog-web/internal/graphql"
	"github.com/studentcatalog/catalog-web/internal/notify"
	"github.com/studentcatalog/catalog-web/internal/render"
	"github.com/studentcatalog/catalog-web/internal/ui"
	"github.com/studentcatalog/catalog-web/internal/view"
	"github.com/studentcatalog/catalog-web/pkg/logger"
	"github.com/studentcatalog/catalog-web/pkg/metrics"
	"github.com/studentcatalog/catalog-web/pkg/middleware"
)

// UIHandler serves the catalog page and its events. Every request for a
// session holds that session's lock from load to save, so events apply in
// arrival order.
type UIHandler struct {
	client *graphql.Client
	store  view.Store
	locks  *view.Locks
	diag   diagnostics.Sink
	now    func() time.Time
}

// NewUIHandler wires the handler. diag may be nil, in which case failures
// only reach the log.
func NewUIHandler(client *graphql.Client, store view.Store, diag diagnostics.Sink) *UIHandler {
	if diag == nil {
		diag = diagnostics.LogSink{}
	}
	return &UIHandler{client: client, store: store, locks: &view.Locks{}, diag: diag, now: time.Now}
}

// Register mounts the page routes. Routes expect SessionMiddleware upstream.
func (h *UIHandler) Register(r gin.IRoutes) {
	r.GET("/", h.Page)
	r.POST("/events/:event", h.Event)
	r.GET("/static/catalog.js", Script)
}

// bind builds the per-dispatch controller. The notifier's timer is
// stopped when the request ends; the stored hide deadline takes over.
func (h *UIHandler) bind(sessionID string, page *view.Page) (*controller.Catalog, *notify.Notifier) {
	n := notify.New(page)
	sink := diagnostics.Bound{Session: sessionID, Sink: h.diag}
	return controller.New(h.client.Bind(n), page, n, sink), n
}

// Page renders the session's page, running the baseline loads on first
// visit or when ?reload=1 is given.
func (h *UIHandler) Page(c *gin.Context) {
	sid := middleware.SessionID(c)
	unlock := h.locks.Lock(sid)
	defer unlock()

	ctx := context.WithoutCancel(c.Request.Context())
	page, err := h.store.Load(ctx, sid)
	if err != nil {
		logger.Errorf("ui: load page for %s: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	if !page.Loaded() || c.Query("reload") == "1" {
		cat, n := h.bind(sid, page)
		if err := cat.Bootstrap(ctx); err != nil {
			logger.Debugf("ui: bootstrap for %s incomplete: %v", sid, err)
		}
		n.Stop()
		page.MarkLoaded()
		if err := h.store.Save(ctx, sid, page); err != nil {
			logger.Errorf("ui: save page for %s: %v", sid, err)
		}
	}

	out, err := render.Page(page, h.now())
	if err != nil {
		logger.Errorf("ui: render page: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// Event applies posted form fields to the page, dispatches the named
// event and redirects back to the page.
func (h *UIHandler) Event(c *gin.Context) {
	name := c.Param("event")
	sid := middleware.SessionID(c)
	unlock := h.locks.Lock(sid)
	defer unlock()

	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.WithoutCancel(c.Request.Context())
	page, err := h.store.Load(ctx, sid)
	if err != nil {
		logger.Errorf("ui: load page for %s: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load page"})
		return
	}

	cat, n := h.bind(sid, page)
	defer n.Stop()
	reg := cat.Registry()
	if !reg.Has(name) {
		metrics.UIEvents.WithLabelValues("unknown", "rejected").Inc()
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown event"})
		return
	}

	args := map[string]string{}
	for key, vals := range c.Request.PostForm {
		if len(vals) == 0 {
			continue
		}
		v := vals[len(vals)-1]
		if view.IsField(key) {
			page.SetValue(key, v)
		} else {
			args[key] = v
		}
	}

	outcome := "ok"
	if err := reg.Dispatch(ctx, ui.NewEvent(name, args)); err != nil {
		outcome = "error"
		logger.Debugf("ui: event %s for %s failed: %v", name, sid, err)
	}
	metrics.UIEvents.WithLabelValues(name, outcome).Inc()

	target := "/"
	if anchor := page.TakeScroll(); anchor != "" {
		target = "/#" + anchor
	}
	if err := h.store.Save(ctx, sid, page); err != nil {
		logger.Errorf("ui: save page for %s: %v", sid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save page"})
		return
	}
	c.Redirect(http.StatusSeeOther, target)
}

// Script serves the browser event shim.
func Script(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", render.Script())
}
