package endpoints

import (
	"html/template"
	"net/http"
)

// pageTemplate is the minimal web shell. Rendering stays deliberately thin:
// the page only fetches the callable operations and shows their output.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Today's Goal Generator</title>
</head>
<body>
<h1>Today's Goal Generator</h1>
<p>{{.MemberName}}</p>
<div>
<button onclick="load('/api/today')">Today</button>
<button onclick="load('/api/weekly/0')">This Week</button>
<button onclick="load('/api/weekly/-1')">Last Week</button>
<button onclick="record()">Record History</button>
<button onclick="load('/api/history')">History</button>
</div>
<pre id="out"></pre>
<script>
async function load(path) {
  const resp = await fetch(path);
  document.getElementById('out').textContent = JSON.stringify(await resp.json(), null, 2);
}
async function record() {
  const today = await fetch('/api/today').then(r => r.json());
  const resp = await fetch('/api/history', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({content: today.content})
  });
  document.getElementById('out').textContent = JSON.stringify(await resp.json(), null, 2);
}
</script>
</body>
</html>
`))

// PageHandler serves the web shell.
func PageHandler(memberName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = pageTemplate.Execute(w, struct{ MemberName string }{MemberName: memberName})
	}
}
