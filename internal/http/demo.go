package httpapi

import (
	"net/http"
)

const demoHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>property search demo</title>
  <style>
    body { font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif; margin: 16px; }
    textarea { width: 100%; min-height: 80px; font-size: 16px; }
    button { padding: 10px 14px; font-size: 16px; }
    pre { white-space: pre-wrap; word-wrap: break-word; background: #f6f6f6; padding: 12px; border-radius: 10px; }
    .cols { display: grid; gap: 12px; grid-template-columns: 1fr; }
    @media (min-width: 900px) { .cols { grid-template-columns: 1fr 1fr; } }
    .card { border: 1px solid #e6e6e6; border-radius: 12px; padding: 12px; }
    .item { border: 1px solid #eaeaea; border-radius: 12px; padding: 10px; margin-top: 8px; }
    .muted { color: #666; font-size: 14px; }
    .say { font-size: 18px; line-height: 1.4; }
  </style>
</head>
<body>
  <h2>property search demo</h2>
  <div class="muted">Type what a caller would say, e.g. "3 bedroom villa in Palm Jumeirah with a pool under 15 million AED".</div>

  <div class="cols" style="margin-top:12px;">
    <div class="card">
      <textarea id="text">I'm looking for a 2 bedroom apartment in Dubai Marina with a balcony, around 2 million AED</textarea>
      <div style="margin-top:10px;"><button id="btnSearch">Search</button></div>
      <div style="margin-top:12px;"><b>Agent says</b></div>
      <div id="say" class="say muted">…</div>
      <div style="margin-top:12px;"><b>Criteria</b></div>
      <pre id="criteria">…</pre>
    </div>
    <div class="card">
      <div><b>Matches</b></div>
      <div id="matches" class="muted">…</div>
    </div>
  </div>

<script>
const textEl = document.getElementById("text");
const sayEl = document.getElementById("say");
const criteriaEl = document.getElementById("criteria");
const matchesEl = document.getElementById("matches");

function money(n) {
  return typeof n === "number" ? n.toLocaleString("en-US") : n;
}

function renderMatches(items) {
  matchesEl.innerHTML = "";
  if (!Array.isArray(items) || items.length === 0) {
    matchesEl.textContent = "No matches";
    return;
  }
  for (const p of items) {
    const div = document.createElement("div");
    div.className = "item";
    const title = document.createElement("div");
    title.innerHTML = "<b></b>";
    title.firstChild.textContent = p.title || "";
    const meta = document.createElement("div");
    meta.className = "muted";
    meta.textContent = (p.type || "") + " • " + (p.bedrooms ?? "") + " bd • " + (p.bathrooms ?? "") + " ba • " +
      money(p.price) + " AED • " + (p.address || "") + " • " + (p.market_type || "") + " • " + (p.status || "");
    div.appendChild(title);
    div.appendChild(meta);
    matchesEl.appendChild(div);
  }
}

document.getElementById("btnSearch").addEventListener("click", async () => {
  sayEl.textContent = "Searching…";
  try {
    const res = await fetch("/api/v1/search", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({text: textEl.value})
    });
    const data = await res.json();
    if (!res.ok) {
      sayEl.textContent = "Error: " + (data.error || res.status);
      return;
    }
    sayEl.textContent = data.response;
    criteriaEl.textContent = JSON.stringify(data.criteria, null, 2);
    renderMatches(data.matches);
  } catch (e) {
    sayEl.textContent = "Request failed: " + e.message;
  }
});
</script>
</body>
</html>`

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(demoHTML))
}
