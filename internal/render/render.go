// Package render turns a normalized analysis into HTML fragments, one per
// display region.
//
// All fragments come from html/template, so every backend-authored string is
// escaped on the way in. Regions are rendered independently; a failure in one
// region leaves the others intact.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/queryscope/console/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Region names a display area of the results panel.
type Region string

const (
	RegionSummary         Region = "summary"
	RegionOptimizedQuery  Region = "opt-query"
	RegionRecommendations Region = "recommendations"
	RegionWarnings        Region = "warnings"
	RegionImpact          Region = "impact"
	RegionAINotes         Region = "ai-notes"
	RegionPlan            Region = "plan"
	RegionRows            Region = "rows"
	RegionRaw             Region = "raw"
)

// Regions lists the result regions in display order.
var Regions = []Region{
	RegionSummary,
	RegionOptimizedQuery,
	RegionRecommendations,
	RegionWarnings,
	RegionImpact,
	RegionAINotes,
	RegionPlan,
	RegionRows,
	RegionRaw,
}

// Fragments maps each result region to its rendered HTML.
type Fragments map[Region]template.HTML

const regionUnavailable = template.HTML("<p>⚠ Section unavailable</p>")

// Results renders every region of resp. A nil resp renders as an empty
// analysis, which shows each region's fallback.
func Results(resp *models.AnalysisResponse) Fragments {
	if resp == nil {
		resp = &models.AnalysisResponse{}
	}
	opt := resp.Optimization
	if opt == nil {
		opt = &models.Optimization{}
	}

	return Fragments{
		RegionSummary:         execute("summary", summaryData(resp)),
		RegionOptimizedQuery:  execute("optimized-query", optimizedQueryData(resp)),
		RegionRecommendations: execute("recommendations", opt.Recommendations),
		RegionWarnings:        execute("warnings", opt.Warnings),
		RegionImpact:          execute("impact", impactData(opt)),
		RegionAINotes:         execute("ai-notes", aiNotesData(resp)),
		RegionPlan:            execute("plan", planData(resp.TechnicalDetails)),
		RegionRows:            execute("rows", rowsData(resp.TechnicalDetails)),
		RegionRaw:             execute("raw", rawData(resp.TechnicalDetails)),
	}
}

// Table renders records as an HTML table. The header comes from the first
// record's keys and every row is read by those keys. No records renders the
// "No data" placeholder.
func Table(rows []models.Record) template.HTML {
	return execute("table", tableData(rows))
}

// TableJSON renders a raw JSON value as a table. Anything but an array of
// objects renders the "No data" placeholder.
func TableJSON(raw []byte) template.HTML {
	rows, _ := models.Records(gjson.ParseBytes(raw))
	return Table(rows)
}

// SchemaOverview renders an arbitrary JSON document, pretty-printed.
func SchemaOverview(doc []byte) template.HTML {
	out := pretty.PrettyOptions(doc, &pretty.Options{Width: 80, Indent: "  "})
	return execute("schema-overview", strings.TrimRight(string(out), "\n"))
}

func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := regionTmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Region render failed")
		return regionUnavailable
	}
	return template.HTML(buf.String())
}

type tableView struct {
	Headers []string
	Rows    [][]string
}

func tableData(rows []models.Record) tableView {
	if len(rows) == 0 {
		return tableView{}
	}
	headers := rows[0].Keys
	v := tableView{Headers: headers, Rows: make([][]string, 0, len(rows))}
	for _, rec := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = rec.Get(h)
		}
		v.Rows = append(v.Rows, cells)
	}
	return v
}

type summaryView struct {
	Database    string
	Impact      string
	ImpactClass string
	Reason      string
	Error       string
}

func summaryData(resp *models.AnalysisResponse) summaryView {
	s := resp.Summary
	if s == nil {
		s = &models.Summary{}
	}
	impact := orDefault("summary.performance_impact", s.PerformanceImpact)
	v := summaryView{
		Database:    orDefault("database", resp.Database),
		Impact:      impact,
		ImpactClass: "impact-" + token(impact),
		Reason:      orDefault("summary.optimization_reason", s.OptimizationReason),
	}
	if s.Status == models.StatusError {
		v.Error = s.Message
	}
	return v
}

type optimizedQueryView struct {
	Success   bool
	Query     string
	WhyFaster string
}

func optimizedQueryData(resp *models.AnalysisResponse) optimizedQueryView {
	opt := resp.Optimization
	if opt == nil || opt.Status != models.StatusSuccess {
		return optimizedQueryView{}
	}
	query := opt.OptimizedQuery
	if query == "" {
		query = resp.OriginalQuery
	}
	return optimizedQueryView{
		Success:   true,
		Query:     query,
		WhyFaster: orDefault("optimization.why_faster", opt.WhyFaster),
	}
}

type impactView struct {
	Level           string
	EngineAdvice    []string
	Materialization []string
}

func impactData(opt *models.Optimization) impactView {
	level := opt.EstimatedImpact
	if level == "" {
		level = opt.PerformanceImpact
	}
	return impactView{
		Level:           orDefault("optimization.estimated_impact", level),
		EngineAdvice:    opt.EngineAdvice,
		Materialization: opt.MaterializationAdvice,
	}
}

type costView struct {
	Success  bool
	Estimate string
	Class    string
	Tips     []string
	Warnings []string
	Error    string
}

type schemaView struct {
	Status       string
	Indexes      []string
	Changes      []string
	Warnings     []string
	WellDesigned bool
	Message      string
	SafeQuery    string
	Reasoning    string
	Error        string
}

type qualityView struct {
	Success    bool
	Issues     []string
	Confidence string
	Reasoning  string
	Error      string
}

type aiNotesView struct {
	Cost    costView
	Schema  schemaView
	Quality qualityView
}

func aiNotesData(resp *models.AnalysisResponse) aiNotesView {
	var v aiNotesView

	cost := resp.CostAnalysis
	if cost == nil {
		cost = &models.CostAnalysis{}
	}
	if cost.Status == models.StatusSuccess {
		estimate := orDefault("cost_analysis.estimated_cost", cost.EstimatedCost)
		v.Cost = costView{
			Success:  true,
			Estimate: estimate,
			Class:    "cost-" + token(estimate),
			Tips:     cost.CostSavingTips,
			Warnings: cost.Warnings,
		}
	} else {
		v.Cost.Error = orDefault("cost_analysis.error", cost.Error)
	}

	schema := resp.SchemaImprovements
	if schema == nil {
		schema = &models.SchemaImprovements{}
	}
	v.Schema = schemaView{
		Status:       schema.Status,
		Indexes:      schema.RecommendedIndexes,
		Changes:      schema.SchemaChanges,
		Warnings:     schema.Warnings,
		WellDesigned: len(schema.RecommendedIndexes) == 0 && len(schema.SchemaChanges) == 0,
		Message:      orDefault("schema_improvements.message", schema.Message),
		SafeQuery:    schema.SafeQuery,
		Reasoning:    schema.Reasoning,
		Error:        orDefault("schema_improvements.error", schema.Error),
	}

	dq := resp.DataQuality
	if dq == nil {
		dq = &models.DataQuality{}
	}
	if dq.Status == models.StatusSuccess {
		v.Quality = qualityView{
			Success:    true,
			Issues:     dq.Issues,
			Confidence: orDefault("data_quality.confidence", dq.Confidence),
			Reasoning:  dq.Reasoning,
		}
	} else {
		v.Quality.Error = orDefault("data_quality.error", dq.Error)
	}
	return v
}

type planView struct {
	Present bool
	Table   tableView
}

func planData(td *models.TechnicalDetails) planView {
	if td == nil || len(td.ExplainPlan) == 0 {
		return planView{}
	}
	return planView{Present: true, Table: tableData(td.ExplainPlan)}
}

type rowsView struct {
	HasRows bool
	Table   tableView
	Message string
	Error   string
}

func rowsData(td *models.TechnicalDetails) rowsView {
	if td == nil || td.SampleRows == nil {
		return rowsView{}
	}
	sr := td.SampleRows
	if len(sr.Rows) > 0 {
		return rowsView{HasRows: true, Table: tableData(sr.Rows), Message: sr.Message}
	}
	return rowsView{Error: sr.Error}
}

type rawTableView struct {
	Name   string
	IsList bool
	Table  tableView
	Detail string
}

type rawView struct {
	Present bool
	Tables  []rawTableView
}

func rawData(td *models.TechnicalDetails) rawView {
	if td == nil || td.SchemaContext == nil {
		return rawView{}
	}
	v := rawView{Present: true}
	for _, t := range td.SchemaContext {
		v.Tables = append(v.Tables, rawTableView{
			Name:   t.Name,
			IsList: t.Columns != nil,
			Table:  tableData(t.Columns),
			Detail: t.Detail,
		})
	}
	return v
}
