// Package models defines the request and response shapes exchanged with the
// SQL analysis service.
//
// The response document is owned by the analysis service and every section of
// it is optional. Normalize maps a raw body into AnalysisResponse once, so the
// rest of the console never has to probe a loosely typed document.
package models

// AnalysisRequest is the JSON body posted to the analysis endpoint.
type AnalysisRequest struct {
	SQL          string `json:"sql"`
	RunInSandbox bool   `json:"run_in_sandbox"`
}

// Section status values reported by the analysis service.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnsafe  = "unsafe"
)

// AnalysisResponse is the normalized analysis document. A nil section means
// the service did not send it or sent something that was not an object.
type AnalysisResponse struct {
	Status string `json:"status,omitempty"`

	// Database is "database", falling back to "database_used".
	Database      string `json:"database,omitempty"`
	OriginalQuery string `json:"original_query,omitempty"`

	Summary            *Summary            `json:"summary,omitempty"`
	Optimization       *Optimization       `json:"optimization,omitempty"`
	CostAnalysis       *CostAnalysis       `json:"cost_analysis,omitempty"`
	SchemaImprovements *SchemaImprovements `json:"schema_improvements,omitempty"`
	DataQuality        *DataQuality        `json:"data_quality,omitempty"`
	TechnicalDetails   *TechnicalDetails   `json:"technical_details,omitempty"`
}

// Summary is the headline of an analysis.
type Summary struct {
	Status             string   `json:"status,omitempty"`
	Message            string   `json:"message,omitempty"`
	PerformanceImpact  string   `json:"performance_impact,omitempty"`
	OptimizationReason string   `json:"optimization_reason,omitempty"`
	KeyRecommendations []string `json:"key_recommendations,omitempty"`
}

// Optimization is the query optimizer's output.
type Optimization struct {
	Status                string   `json:"status,omitempty"`
	Error                 string   `json:"error,omitempty"`
	OptimizedQuery        string   `json:"optimized_query,omitempty"`
	PerformanceImpact     string   `json:"performance_impact,omitempty"`
	WhyFaster             string   `json:"why_faster,omitempty"`
	Recommendations       []string `json:"recommendations,omitempty"`
	Warnings              []string `json:"warnings,omitempty"`
	EstimatedImpact       string   `json:"estimated_impact,omitempty"`
	EngineAdvice          []string `json:"engine_advice,omitempty"`
	MaterializationAdvice []string `json:"materialization_advice,omitempty"`
}

// CostAnalysis is the cost advisor's output.
type CostAnalysis struct {
	Status         string   `json:"status,omitempty"`
	EstimatedCost  string   `json:"estimated_cost,omitempty"`
	CostSavingTips []string `json:"cost_saving_tips,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// SchemaImprovements is the schema advisor's output. Unsafe queries carry a
// message, a safe rewrite and the advisor's reasoning instead of advice.
type SchemaImprovements struct {
	Status             string   `json:"status,omitempty"`
	RecommendedIndexes []string `json:"recommended_indexes,omitempty"`
	SchemaChanges      []string `json:"schema_changes,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
	Error              string   `json:"error,omitempty"`
	Message            string   `json:"message,omitempty"`
	SafeQuery          string   `json:"safe_query,omitempty"`
	Reasoning          string   `json:"reasoning,omitempty"`
}

// DataQuality is the data validator's output.
type DataQuality struct {
	Status     string   `json:"status,omitempty"`
	Issues     []string `json:"issues,omitempty"`
	Confidence string   `json:"confidence,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// TechnicalDetails carries the raw material the advisors worked from.
type TechnicalDetails struct {
	// ExplainPlan is nil when the service sent no plan or sent a non-list.
	ExplainPlan   []Record      `json:"explain_plan,omitempty"`
	SampleRows    *SampleRows   `json:"sample_rows,omitempty"`
	SchemaContext []SchemaTable `json:"schema_context,omitempty"`
}

// SampleRows holds rows fetched by running the query, or the reason why no
// rows could be fetched.
type SampleRows struct {
	Rows    []Record `json:"rows,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SchemaTable is one entry of the schema context, keyed by table name.
type SchemaTable struct {
	Name string `json:"name"`
	// Columns is set when the entry is a list of column descriptions.
	Columns []Record `json:"columns,omitempty"`
	// Detail is the compact JSON of an entry that is an object.
	Detail string `json:"detail,omitempty"`
}

// Record is one row of tabular data. Keys keeps the column order of the
// source object; Values holds the display form of each cell.
type Record struct {
	Keys   []string          `json:"keys"`
	Values map[string]string `json:"values"`
}

// Get returns the display value of key, or "" when the record lacks it.
func (r Record) Get(key string) string {
	return r.Values[key]
}
