package server

const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
nav a { margin-right: 1rem; }
nav a.selected { font-weight: bold; text-decoration: none; color: #000; }
.error { color: #a00; border: 1px solid #a00; padding: 1rem; }
table { border-collapse: collapse; margin-top: 1rem; }
td, th { padding: 0.2rem 0.6rem; text-align: left; }
td.num { text-align: right; }
</style>
</head>
<body>
<h1>GDP by Country (Stacked by Region)</h1>
<nav>Source:
{{range .Sources}}<a href="/?source={{.Key}}"{{if .Selected}} class="selected"{{end}}>{{.Name}}</a>
{{end}}</nav>
{{if .Error}}
<p class="error">{{.Error}}</p>
{{else}}
<div class="chart">{{.Chart}}</div>
<p><a href="/data.csv?source={{.Key}}">Download CSV</a> · <a href="/chart.svg?source={{.Key}}">SVG</a> · <a href="/share.svg?source={{.Key}}">Regional shares</a></p>
<table>
<tr><th>Region</th><th>Country</th><th>GDP (US$ million)</th></tr>
{{range .Buckets}}{{$region := .Region}}{{range .Entries}}<tr><td>{{$region}}</td><td>{{.Label}}</td><td class="num">{{printf "%.0f" .Value}}</td></tr>
{{end}}{{end}}</table>
{{end}}
<p><small>Source: Wikipedia, {{.Source}} figures.</small></p>
</body>
</html>
`
