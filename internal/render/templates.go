package render

import (
	"html/template"
	"strings"
)

var regionTmpl = template.Must(template.New("regions").Funcs(template.FuncMap{
	"placeholder": Placeholder,
}).Parse(regionTemplates))

const regionTemplates = `
{{- define "table" -}}
{{- if .Headers -}}
<table border="1" cellpadding="4" cellspacing="0"><thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
{{- range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end -}}
</tbody></table>
{{- else -}}
<p>{{placeholder "table"}}</p>
{{- end -}}
{{- end -}}

{{- define "summary" -}}
<h3>📊 Analysis Summary</h3>
<p><strong>Database:</strong> {{.Database}}</p>
<p><strong>Performance Impact:</strong> <span class="{{.ImpactClass}}">{{.Impact}}</span></p>
<p><strong>Key Findings:</strong> {{.Reason}}</p>
{{- if .Error}}
<p>⚠ {{.Error}}</p>
{{- end -}}
{{- end -}}

{{- define "optimized-query" -}}
{{- if .Success -}}
<strong>Optimized Query:</strong><pre>{{.Query}}</pre>
<p><strong>Why Faster:</strong> {{.WhyFaster}}</p>
{{- else -}}
<p>{{placeholder "optimization"}}</p>
{{- end -}}
{{- end -}}

{{- define "recommendations" -}}
{{- if . -}}
<strong>💡 Optimization Tips:</strong><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
{{- else -}}
<p>{{placeholder "recommendations"}}</p>
{{- end -}}
{{- end -}}

{{- define "warnings" -}}
{{- if . -}}
<strong>⚠ Warnings:</strong><ul>{{range .}}<li>{{.}}</li>{{end}}</ul>
{{- else -}}
<p>{{placeholder "warnings"}}</p>
{{- end -}}
{{- end -}}

{{- define "impact" -}}
<strong>Impact Level:</strong> {{.Level}}
{{- if .EngineAdvice}}<br><strong>🔧 Engine Tips:</strong><ul>{{range .EngineAdvice}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- if .Materialization}}<strong>🧱 Materialization Advice:</strong><ul>{{range .Materialization}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- end -}}

{{- define "ai-notes" -}}
<h4>💰 Cost Analysis</h4>
{{- with .Cost}}
{{- if .Success}}
<p><strong>Estimated Cost:</strong> <strong class="{{.Class}}">{{.Estimate}}</strong></p>
{{- if .Tips}}<ul>{{range .Tips}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- if .Warnings}}<p><strong>Warnings:</strong></p><ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- else}}
<p>⚠ {{.Error}}</p>
{{- end}}
{{- end}}
<h4>🗄️ Schema Improvements</h4>
{{- with .Schema}}
{{- if eq .Status "success"}}
{{- if .Indexes}}<p><strong>Recommended Indexes:</strong></p><ul>{{range .Indexes}}<li><code>{{.}}</code></li>{{end}}</ul>{{end}}
{{- if .Changes}}<p><strong>Schema Changes:</strong></p><ul>{{range .Changes}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- if .Warnings}}<p><strong>Warnings:</strong></p><ul>{{range .Warnings}}<li>{{.}}</li>{{end}}</ul>{{end}}
{{- if .WellDesigned}}
<p>{{placeholder "schema"}}</p>
{{- end}}
{{- else if eq .Status "unsafe"}}
<p>⚠️ {{.Message}}</p>
{{- if .SafeQuery}}<p><strong>Safe Query:</strong></p><pre>{{.SafeQuery}}</pre>{{end}}
{{- if .Reasoning}}<p><em>{{.Reasoning}}</em></p>{{end}}
{{- else}}
<p>⚠ {{.Error}}</p>
{{- end}}
{{- end}}
<h4>✅ Data Quality</h4>
{{- with .Quality}}
{{- if .Success}}
{{- if .Issues}}
<p><strong>Issues Found ({{.Confidence}} confidence):</strong></p><ul>{{range .Issues}}<li>{{.}}</li>{{end}}</ul>
{{- else}}
<p>{{placeholder "data_quality"}}</p>
{{- end}}
{{- if .Reasoning}}
<p><em>{{.Reasoning}}</em></p>
{{- end}}
{{- else}}
<p>⚠ {{.Error}}</p>
{{- end}}
{{- end -}}
{{- end -}}

{{- define "plan" -}}
{{- if .Present -}}
{{template "table" .Table}}
{{- else -}}
<p>{{placeholder "explain_plan"}}</p>
{{- end -}}
{{- end -}}

{{- define "rows" -}}
{{- if .HasRows -}}
{{template "table" .Table}}
{{- if .Message}}<p><em>{{.Message}}</em></p>{{end}}
{{- else if .Error -}}
<p>⚠ {{.Error}}</p>
{{- else -}}
<p>{{placeholder "sample_rows"}}</p>
{{- end -}}
{{- end -}}

{{- define "raw" -}}
{{- if .Present -}}
<h3>📂 Schema Context</h3>
{{- range .Tables}}
<h4>Table: <code>{{.Name}}</code></h4>
{{- if .IsList}}{{template "table" .Table}}{{else if .Detail}}<p>{{.Detail}}</p>{{end}}
{{- end}}
{{- end -}}
{{- end -}}

{{- define "schema-overview" -}}
<h3>🗄 Schema Overview</h3>
<pre>{{.}}</pre>
{{- end -}}
`

// token turns a backend label into a CSS class suffix.
func token(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return '-'
	}, s)
}
