// Package handlers implements the HTTP handlers for the QueryScope console.
// Each browser session drives its own ui.Controller; handlers translate form
// posts into controller actions and render the session's view.
package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/queryscope/console/internal/api/middleware"
	"github.com/queryscope/console/internal/render"
	"github.com/queryscope/console/internal/sessions"
	"github.com/queryscope/console/internal/ui"
	"github.com/rs/zerolog/log"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Handlers holds all handler dependencies.
type Handlers struct {
	Sessions *sessions.MemorySessionStore
	Version  string
}

// New creates a new Handlers instance.
func New(store *sessions.MemorySessionStore, version string) *Handlers {
	return &Handlers{
		Sessions: store,
		Version:  version,
	}
}

type regionView struct {
	ID      string
	Content template.HTML
}

type pageView struct {
	View    ui.Snapshot
	Regions []regionView
	Refresh bool
	Version string
}

// Index renders the console page for the caller's session.
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	snap := sess.Controller.Snapshot()
	page := pageView{
		View:    snap,
		Regions: make([]regionView, 0, len(render.Regions)),
		Refresh: snap.State == ui.StateRunning.String(),
		Version: h.Version,
	}
	for _, id := range render.Regions {
		page.Regions = append(page.Regions, regionView{ID: string(id), Content: snap.Region(string(id))})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTmpl.Execute(w, page); err != nil {
		log.Error().Err(err).Msg("Failed to render console page")
	}
}

// Run starts an analysis of the posted query. The analysis call outlives the
// request; the page refreshes until it completes.
func (h *Handlers) Run(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if sess.Controller.Busy() {
		log.Debug().Str("session", sess.ID).Msg("Run ignored, analysis in flight")
		redirectHome(w, r)
		return
	}

	sess.Controller.SetInput(r.PostFormValue("sql"), r.PostFormValue("sandbox") == "true")
	err := sess.Controller.RunAnalysisAsync(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, ui.ErrEmptyQuery):
	case errors.Is(err, ui.ErrRunInFlight):
		log.Debug().Str("session", sess.ID).Msg("Run ignored, analysis in flight")
	case err != nil:
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	redirectHome(w, r)
}

// Clear resets the session's view.
func (h *Handlers) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.Controller.ClearAll()
	redirectHome(w, r)
}

// AnalyzeSchema fetches the schema overview into the session's view.
func (h *Handlers) AnalyzeSchema(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	// Failures are shown in the view's banner.
	_ = sess.Controller.AnalyzeSchema(r.Context())
	redirectHome(w, r)
}

// GetView returns the session's view as JSON.
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, sess.Controller.Snapshot())
}

func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*sessions.Session, bool) {
	sess, err := h.Sessions.Acquire(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return sess, true
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ══════════════════════════════════════════════════════════════
// ── Helpers ──────────────────────────────────────────────────
// ══════════════════════════════════════════════════════════════

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
