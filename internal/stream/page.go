package stream

import "net/http"

const page = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>sphfluid</title>
<style>body{margin:0;background:#0a0a0a;color:#888;font:12px monospace}canvas{display:block;margin:1em auto;background:#000}</style>
</head>
<body>
<canvas id="c" width="512" height="512"></canvas>
<p id="s" style="text-align:center"></p>
<script>
const c = document.getElementById("c"), g = c.getContext("2d"), s = document.getElementById("s");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = e => {
  const m = JSON.parse(e.data);
  g.fillStyle = "#000";
  g.fillRect(0, 0, c.width, c.height);
  m.particles.forEach((p, i) => {
    g.fillStyle = m.colors ? m.colors[i] : "#4af";
    g.fillRect(p[0] * c.width / m.width, c.height - p[1] * c.height / m.height, 2, 2);
  });
  s.textContent = "t=" + m.time.toFixed(3) + "  steps=" + m.steps + "  particles=" + m.particles.length;
};
</script>
</body>
</html>
`

// Page serves a minimal canvas client for the /ws endpoint.
func Page(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// NewMux routes / to the page and /ws to hub.
func NewMux(hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", Page)
	mux.Handle("/ws", hub)
	return mux
}
