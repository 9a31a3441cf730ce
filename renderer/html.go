package renderer

import (
	"html/template"
	"io"
)

// page is the data of the HTML template.
type page struct {
	*View
	LoadingText string
	Live        string // websocket path the page reloads on, none when empty.
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Portfolio Dashboard</title>
<style>
body { font-family: sans-serif; background: #201F26; color: #DFDBDD; margin: 2em; }
h1 { color: #6B50FF; }
h2 { color: #FF60FF; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #4D4C57; padding: 0.3em 0.6em; }
td.num { text-align: right; }
.muted { color: #858392; }
.gain { color: #00FFB2; }
.loss { color: #E94090; }
</style>
</head>
<body>
{{- if .Loading }}
<p class="loading">{{ .LoadingText }}</p>
{{- else }}
<h1>{{ .Title }}</h1>
<p class="muted">Last updated: {{ .Updated }}</p>
{{- range .Sectors }}
<section>
<h2>{{ .Name }}</h2>
<p>Holdings: <strong>{{ .Holdings }}</strong> · Investment: <strong>{{ .Investment }}</strong> · Present Value: <strong>{{ .PresentValue }}</strong> · Gain/Loss: <strong class="{{ .GainLoss.Tone }}">{{ .GainLoss.Text }}</strong></p>
<table>
<thead><tr><th>Ticker</th><th>Qty</th><th>Purchase</th><th>Investment</th><th>Portfolio %</th><th>CMP</th><th>Present Value</th><th>Gain/Loss</th><th>P/E</th><th>Earnings</th></tr></thead>
<tbody>
{{- range .Rows }}
<tr data-index="{{ .Index }}"><td>{{ .Ticker }}</td><td class="num">{{ .Quantity }}</td><td class="num">{{ .PurchasePrice }}</td><td class="num">{{ .Investment }}</td><td class="num">{{ .PortfolioPercent }}</td><td class="num">{{ .CMP }}</td><td class="num">{{ .PresentValue }}</td><td class="num {{ .GainLoss.Tone }}">{{ .GainLoss.Text }}</td><td class="num">{{ .PE }}</td><td>{{ .Earnings }}</td></tr>
{{- end }}
</tbody>
</table>
</section>
{{- end }}
{{- end }}
{{- if .Live }}
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + {{ .Live }});
  ws.onmessage = function () { location.reload(); };
})();
</script>
{{- end }}
</body>
</html>
`))

// HTML writes the View as a standalone HTML page.
func HTML(w io.Writer, v *View) error { return LiveHTML(w, v, "") }

// LiveHTML writes the View as an HTML page that reloads itself whenever the
// websocket at path sends a message.
func LiveHTML(w io.Writer, v *View, path string) error {
	if v == nil {
		v = &View{Loading: true}
	}
	return pageTemplate.Execute(w, page{View: v, LoadingText: Loading, Live: path})
}
