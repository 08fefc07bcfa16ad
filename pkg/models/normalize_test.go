package models_test

import (
	"errors"
	"testing"

	"github.com/queryscope/console/pkg/models"
	"github.com/tidwall/gjson"
)

func TestNormalize_FullDocument(t *testing.T) {
	body := []byte(`{
		"status": "success",
		"database": "shop",
		"original_query": "SELECT * FROM orders",
		"summary": {"status": "success", "performance_impact": "High", "optimization_reason": "Avoid full scan", "key_recommendations": ["add index"]},
		"optimization": {"status": "success", "optimized_query": "SELECT id FROM orders", "recommendations": ["select only needed columns"], "warnings": [], "estimated_impact": "High", "engine_advice": ["use InnoDB"]},
		"cost_analysis": {"status": "success", "estimated_cost": "Low", "cost_saving_tips": ["cache"]},
		"schema_improvements": {"status": "success", "recommended_indexes": ["CREATE INDEX idx ON orders(id)"]},
		"data_quality": {"status": "success", "issues": [], "confidence": "high", "reasoning": "fine"},
		"technical_details": {
			"explain_plan": [{"id": 1, "select_type": "SIMPLE", "table": "orders", "key": null}],
			"sample_rows": {"rows": [{"id": 7, "total": 9.5}], "message": "first 1 rows"},
			"schema_context": {"orders": [{"Field": "id", "Type": "int"}], "meta": {"engine": "InnoDB"}}
		}
	}`)

	resp, err := models.Normalize(body)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if resp.Database != "shop" {
		t.Errorf("Database = %q, want %q", resp.Database, "shop")
	}
	if resp.Summary == nil || resp.Summary.PerformanceImpact != "High" {
		t.Fatalf("Summary = %+v, want performance impact High", resp.Summary)
	}
	if got := resp.Optimization.Recommendations; len(got) != 1 || got[0] != "select only needed columns" {
		t.Errorf("Recommendations = %v", got)
	}
	if resp.CostAnalysis.EstimatedCost != "Low" {
		t.Errorf("EstimatedCost = %q, want %q", resp.CostAnalysis.EstimatedCost, "Low")
	}

	plan := resp.TechnicalDetails.ExplainPlan
	if len(plan) != 1 {
		t.Fatalf("len(ExplainPlan) = %d, want 1", len(plan))
	}
	wantKeys := []string{"id", "select_type", "table", "key"}
	for i, k := range wantKeys {
		if plan[0].Keys[i] != k {
			t.Errorf("ExplainPlan[0].Keys[%d] = %q, want %q", i, plan[0].Keys[i], k)
		}
	}
	if plan[0].Get("key") != "NULL" {
		t.Errorf("null cell = %q, want %q", plan[0].Get("key"), "NULL")
	}

	rows := resp.TechnicalDetails.SampleRows
	if rows == nil || len(rows.Rows) != 1 || rows.Rows[0].Get("total") != "9.5" {
		t.Errorf("SampleRows = %+v", rows)
	}

	ctx := resp.TechnicalDetails.SchemaContext
	if len(ctx) != 2 {
		t.Fatalf("len(SchemaContext) = %d, want 2", len(ctx))
	}
	if ctx[0].Name != "orders" || len(ctx[0].Columns) != 1 {
		t.Errorf("SchemaContext[0] = %+v", ctx[0])
	}
	if ctx[1].Name != "meta" || ctx[1].Detail != `{"engine":"InnoDB"}` {
		t.Errorf("SchemaContext[1] = %+v", ctx[1])
	}
}

func TestNormalize_DatabaseUsedFallback(t *testing.T) {
	resp, err := models.Normalize([]byte(`{"database_used": "sandbox"}`))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if resp.Database != "sandbox" {
		t.Errorf("Database = %q, want %q", resp.Database, "sandbox")
	}

	resp, _ = models.Normalize([]byte(`{"database": "prod", "database_used": "sandbox"}`))
	if resp.Database != "prod" {
		t.Errorf("Database = %q, want %q (database wins)", resp.Database, "prod")
	}
}

func TestNormalize_MalformedSectionsAreIsolated(t *testing.T) {
	body := []byte(`{
		"summary": "oops",
		"optimization": {"status": "success", "recommendations": "not a list", "warnings": ["w1"]},
		"cost_analysis": [1, 2],
		"technical_details": {"explain_plan": {"error": "no plan"}}
	}`)

	resp, err := models.Normalize(body)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if resp.Summary != nil {
		t.Errorf("Summary = %+v, want nil for a non-object section", resp.Summary)
	}
	if resp.CostAnalysis != nil {
		t.Errorf("CostAnalysis = %+v, want nil", resp.CostAnalysis)
	}
	if resp.Optimization == nil {
		t.Fatal("Optimization should survive a malformed field")
	}
	if resp.Optimization.Recommendations != nil {
		t.Errorf("Recommendations = %v, want nil", resp.Optimization.Recommendations)
	}
	if len(resp.Optimization.Warnings) != 1 {
		t.Errorf("Warnings = %v, want [w1]", resp.Optimization.Warnings)
	}
	if resp.TechnicalDetails.ExplainPlan != nil {
		t.Errorf("ExplainPlan = %v, want nil for a non-list", resp.TechnicalDetails.ExplainPlan)
	}
}

func TestNormalize_EmptyObject(t *testing.T) {
	resp, err := models.Normalize([]byte(`{}`))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if resp.Summary != nil || resp.Optimization != nil || resp.TechnicalDetails != nil {
		t.Errorf("expected every section nil, got %+v", resp)
	}
}

func TestNormalize_Rejects(t *testing.T) {
	if _, err := models.Normalize([]byte(`not json`)); err == nil {
		t.Error("Normalize() on invalid JSON should fail")
	}
	if _, err := models.Normalize([]byte(`[1,2,3]`)); !errors.Is(err, models.ErrNotObject) {
		t.Errorf("Normalize() on array error = %v, want ErrNotObject", err)
	}
}

func TestRecords(t *testing.T) {
	recs, ok := models.Records(gjson.Parse(`[{"a":1,"b":2},{"b":4,"a":3}]`))
	if !ok {
		t.Fatal("Records() ok = false for an array")
	}
	if len(recs) != 2 {
		t.Fatalf("len(Records()) = %d, want 2", len(recs))
	}
	if recs[1].Get("a") != "3" || recs[1].Get("b") != "4" {
		t.Errorf("second record = %+v", recs[1])
	}

	if _, ok := models.Records(gjson.Parse(`{"a":1}`)); ok {
		t.Error("Records() ok = true for an object")
	}
	if _, ok := models.Records(gjson.Result{}); ok {
		t.Error("Records() ok = true for a missing value")
	}
}
