// Package ui implements the analysis console's interaction controller.
//
// A Controller owns one View: the query and sandbox inputs, the run control,
// the results panel with its regions, the message banner and the schema
// overview panel. Every mutation of the view goes through the controller,
// under its lock. The only blocking step is the call to the analysis service,
// which runs without the lock held.
package ui

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/queryscope/console/internal/client"
	"github.com/queryscope/console/internal/render"
	"github.com/queryscope/console/pkg/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrEmptyQuery is returned when a run is requested with a blank query.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrRunInFlight is returned when a run is requested while another one
	// is still waiting for the analysis service.
	ErrRunInFlight = errors.New("an analysis is already running")
)

// Analyzer is the analysis service as seen by the controller.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error)
	AnalyzeSchema(ctx context.Context) ([]byte, error)
}

// Controller binds user actions to analysis calls and view updates.
type Controller struct {
	mu       sync.Mutex
	view     *View
	analyzer Analyzer
	state    State
	running  bool
	inflight sync.WaitGroup
}

// NewController creates a controller over view, calling analyzer for runs.
func NewController(view *View, analyzer Analyzer) *Controller {
	return &Controller{
		view:     view,
		analyzer: analyzer,
	}
}

// SetInput sets the query field and the sandbox selector.
func (c *Controller) SetInput(sql string, sandbox bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.Query.Value = sql
	c.view.Sandbox.Value = "false"
	if sandbox {
		c.view.Sandbox.Value = "true"
	}
}

// RunAnalysis submits the current query and renders the outcome. It blocks
// until the analysis service answers or the request fails.
func (c *Controller) RunAnalysis(ctx context.Context) error {
	req, err := c.begin()
	if err != nil {
		return err
	}
	return c.complete(ctx, req)
}

// RunAnalysisAsync validates and starts a run, then returns while the
// analysis call proceeds in the background. Validation failures are returned
// and shown immediately.
func (c *Controller) RunAnalysisAsync(ctx context.Context) error {
	req, err := c.begin()
	if err != nil {
		return err
	}
	go c.complete(ctx, req)
	return nil
}

func (c *Controller) begin() (models.AnalysisRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return models.AnalysisRequest{}, ErrRunInFlight
	}

	c.view.Message.Visible = false
	sql := strings.TrimSpace(c.view.Query.Value)
	if sql == "" {
		c.showMessage("Please paste a SQL query.", MessageError)
		return models.AnalysisRequest{}, ErrEmptyQuery
	}

	c.running = true
	c.view.Run.Disabled = true
	c.view.Run.Label = LabelRunning
	c.inflight.Add(1)

	return models.AnalysisRequest{
		SQL:          sql,
		RunInSandbox: c.view.Sandbox.Value == "true",
	}, nil
}

func (c *Controller) complete(ctx context.Context, req models.AnalysisRequest) error {
	defer c.inflight.Done()
	defer c.finish()

	log.Info().Int("sql_length", len(req.SQL)).Bool("sandbox", req.RunInSandbox).Msg("Running analysis")
	resp, err := c.analyzer.Analyze(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("Analysis failed")
		c.showMessage(failureMessage(err), MessageError)
		return err
	}
	c.renderResults(resp)
	return nil
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.running = false
	c.view.Run.Disabled = false
	c.view.Run.Label = LabelReady
}

// ClearAll empties the query, hides the results panel, clears every result
// region and hides the banner.
func (c *Controller) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.view.Query.Value = ""
	c.view.Results.Hidden = true
	for _, r := range c.view.Regions {
		r.Content = ""
	}
	c.view.Message.Text = ""
	c.view.Message.Visible = false
	c.state = StateIdle
}

// RenderResults shows the results panel and fills every region from resp.
func (c *Controller) RenderResults(resp *models.AnalysisResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderResults(resp)
}

func (c *Controller) renderResults(resp *models.AnalysisResponse) {
	c.view.Results.Hidden = false
	for region, html := range render.Results(resp) {
		if r, ok := c.view.Regions[region]; ok {
			r.Content = html
		}
	}
	c.state = StateResults
}

// ShowMessage replaces the banner. Any kind other than MessageError is shown
// as information.
func (c *Controller) ShowMessage(text string, kind MessageKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showMessage(text, kind)
}

func (c *Controller) showMessage(text string, kind MessageKind) {
	if kind != MessageError {
		kind = MessageInfo
	}
	c.view.Message.Text = text
	c.view.Message.Kind = kind
	c.view.Message.Visible = true
	c.state = StateMessage
}

// AnalyzeSchema fetches the service's schema overview into the schema
// results panel.
func (c *Controller) AnalyzeSchema(ctx context.Context) error {
	doc, err := c.analyzer.AnalyzeSchema(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("Schema overview failed")
		c.showMessage("Schema overview failed: "+failureMessage(err), MessageError)
		return err
	}
	c.view.SchemaResults.Content = render.SchemaOverview(doc)
	return nil
}

// State reports the current interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return StateRunning
	}
	return c.state
}

// Busy reports whether a run is waiting for the analysis service.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Wait blocks until no run is in flight.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Snapshot copies the view for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	state := c.state
	if c.running {
		state = StateRunning
	}
	s := Snapshot{
		State:          state.String(),
		Query:          c.view.Query.Value,
		Sandbox:        c.view.Sandbox.Value == "true",
		RunDisabled:    c.view.Run.Disabled,
		RunLabel:       c.view.Run.Label,
		ResultsVisible: !c.view.Results.Hidden,
		Regions:        make(map[string]template.HTML, len(c.view.Regions)),
		SchemaResults:  c.view.SchemaResults.Content,
	}
	for id, r := range c.view.Regions {
		s.Regions[string(id)] = r.Content
	}
	if c.view.Message.Visible {
		msg := *c.view.Message
		s.Message = &msg
	}
	return s
}

func failureMessage(err error) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Sprintf("Server error: %d - %s", statusErr.StatusCode, statusErr.Body)
	}
	return "Request failed: " + err.Error()
}
