package models

import (
	"errors"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ErrNotObject is returned by Normalize when the body is not a JSON object.
var ErrNotObject = errors.New("analysis response is not a JSON object")

// Normalize maps a raw analysis document into an AnalysisResponse.
//
// Sections are read independently: a section that is missing or has the
// wrong shape comes back nil and never prevents the others from being read.
func Normalize(body []byte) (*AnalysisResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("analysis response is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, ErrNotObject
	}

	resp := &AnalysisResponse{
		Status:        text(doc.Get("status")),
		Database:      firstNonEmpty(text(doc.Get("database")), text(doc.Get("database_used"))),
		OriginalQuery: text(doc.Get("original_query")),
	}

	if s := doc.Get("summary"); s.IsObject() {
		resp.Summary = &Summary{
			Status:             text(s.Get("status")),
			Message:            text(s.Get("message")),
			PerformanceImpact:  text(s.Get("performance_impact")),
			OptimizationReason: text(s.Get("optimization_reason")),
			KeyRecommendations: list(s.Get("key_recommendations")),
		}
	}

	if o := doc.Get("optimization"); o.IsObject() {
		resp.Optimization = &Optimization{
			Status:                text(o.Get("status")),
			Error:                 text(o.Get("error")),
			OptimizedQuery:        text(o.Get("optimized_query")),
			PerformanceImpact:     text(o.Get("performance_impact")),
			WhyFaster:             text(o.Get("why_faster")),
			Recommendations:       list(o.Get("recommendations")),
			Warnings:              list(o.Get("warnings")),
			EstimatedImpact:       text(o.Get("estimated_impact")),
			EngineAdvice:          list(o.Get("engine_advice")),
			MaterializationAdvice: list(o.Get("materialization_advice")),
		}
	}

	if c := doc.Get("cost_analysis"); c.IsObject() {
		resp.CostAnalysis = &CostAnalysis{
			Status:         text(c.Get("status")),
			EstimatedCost:  text(c.Get("estimated_cost")),
			CostSavingTips: list(c.Get("cost_saving_tips")),
			Warnings:       list(c.Get("warnings")),
			Error:          text(c.Get("error")),
		}
	}

	if s := doc.Get("schema_improvements"); s.IsObject() {
		resp.SchemaImprovements = &SchemaImprovements{
			Status:             text(s.Get("status")),
			RecommendedIndexes: list(s.Get("recommended_indexes")),
			SchemaChanges:      list(s.Get("schema_changes")),
			Warnings:           list(s.Get("warnings")),
			Error:              text(s.Get("error")),
			Message:            text(s.Get("message")),
			SafeQuery:          text(s.Get("safe_query")),
			Reasoning:          text(s.Get("reasoning")),
		}
	}

	if d := doc.Get("data_quality"); d.IsObject() {
		resp.DataQuality = &DataQuality{
			Status:     text(d.Get("status")),
			Issues:     list(d.Get("issues")),
			Confidence: text(d.Get("confidence")),
			Reasoning:  text(d.Get("reasoning")),
			Error:      text(d.Get("error")),
		}
	}

	if t := doc.Get("technical_details"); t.IsObject() {
		resp.TechnicalDetails = technicalDetails(t)
	}

	return resp, nil
}

func technicalDetails(t gjson.Result) *TechnicalDetails {
	td := &TechnicalDetails{}
	td.ExplainPlan, _ = Records(t.Get("explain_plan"))

	if sr := t.Get("sample_rows"); sr.IsObject() {
		rows, _ := Records(sr.Get("rows"))
		td.SampleRows = &SampleRows{
			Rows:    rows,
			Message: text(sr.Get("message")),
			Error:   text(sr.Get("error")),
		}
	}

	if sc := t.Get("schema_context"); sc.IsObject() {
		td.SchemaContext = []SchemaTable{}
		sc.ForEach(func(key, value gjson.Result) bool {
			table := SchemaTable{Name: key.String()}
			switch {
			case value.IsArray():
				table.Columns, _ = Records(value)
			case value.IsObject():
				table.Detail = compact(value)
			}
			td.SchemaContext = append(td.SchemaContext, table)
			return true
		})
	}
	return td
}

// Records reads a JSON array of objects into records, preserving each
// object's key order. The second result is false when v is not an array.
// Elements that are not objects become records without columns.
func Records(v gjson.Result) ([]Record, bool) {
	if !v.IsArray() {
		return nil, false
	}
	elems := v.Array()
	out := make([]Record, 0, len(elems))
	for _, elem := range elems {
		rec := Record{Values: map[string]string{}}
		if elem.IsObject() {
			elem.ForEach(func(key, value gjson.Result) bool {
				k := key.String()
				if _, seen := rec.Values[k]; !seen {
					rec.Keys = append(rec.Keys, k)
				}
				rec.Values[k] = Cell(value)
				return true
			})
		}
		out = append(out, rec)
	}
	return out, true
}

// Cell returns the display form of a JSON value inside a table.
func Cell(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw
	case gjson.Null:
		if v.Exists() {
			return "NULL"
		}
		return ""
	default:
		return compact(v)
	}
}

// text reads a scalar. Objects, arrays, null and missing values read as "".
func text(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Number, gjson.True, gjson.False:
		return v.Raw
	}
	return ""
}

// list reads an array of display strings; anything but an array is nil.
func list(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	elems := v.Array()
	out := make([]string, 0, len(elems))
	for _, elem := range elems {
		switch {
		case elem.IsObject(), elem.IsArray():
			out = append(out, compact(elem))
		case elem.Type == gjson.Null:
		default:
			out = append(out, text(elem))
		}
	}
	return out
}

func compact(v gjson.Result) string {
	return string(pretty.Ugly([]byte(v.Raw)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
