package render

// Field defaults and placeholder copy. Every string the renderer shows in
// place of missing data comes from this table.
var fallbacks = map[string]string{
	"database":                      "unknown",
	"summary.performance_impact":    "Unknown",
	"summary.optimization_reason":   "Query analyzed",
	"optimization.why_faster":       "See recommendations below",
	"optimization.estimated_impact": "Unknown",
	"cost_analysis.estimated_cost":  "Medium",
	"cost_analysis.error":           "Cost analysis unavailable",
	"schema_improvements.error":     "Schema analysis unavailable",
	"schema_improvements.message":   "Query contains unsafe operations",
	"data_quality.confidence":       "Medium",
	"data_quality.error":            "Data validation unavailable",

	"placeholder.optimization":    "⚠ Optimization analysis in progress",
	"placeholder.recommendations": "✓ No specific optimizations needed",
	"placeholder.warnings":        "✓ No issues detected",
	"placeholder.schema":          "✓ Current schema is well-designed",
	"placeholder.data_quality":    "✓ Data quality looks good",
	"placeholder.explain_plan":    "⚠ No explain plan available",
	"placeholder.sample_rows":     "⚠ No sample data available",
	"placeholder.table":           "No data",
}

// orDefault returns v, or the default registered for field when v is empty.
func orDefault(field, v string) string {
	if v != "" {
		return v
	}
	return fallbacks[field]
}

// Placeholder returns the copy shown for an empty region or table.
func Placeholder(name string) string {
	return fallbacks["placeholder."+name]
}
