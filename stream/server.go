package stream

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// NewRouter returns the stream routes:
//
//	/ws          websocket frame stream
//	/frame.json  last published frame
//	/            viewer page drawing the stream on a canvas
func NewRouter(h *Hub) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ws", h.ServeWS)
	r.HandleFunc("/frame.json", h.serveLatest).Methods(http.MethodGet)
	r.HandleFunc("/", serveViewer).Methods(http.MethodGet)
	return r
}

func (h *Hub) serveLatest(w http.ResponseWriter, r *http.Request) {
	data := h.Latest()
	if data == nil {
		http.Error(w, "no frame published yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func serveViewer(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(viewerPage))
}

// ListenAndServe serves the hub on addr until ctx is cancelled, then shuts
// the server down. The hub stays open: close it once nothing publishes to it
// anymore, which disconnects the websocket clients. Serve does both.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	var handler http.Handler = NewRouter(h)
	handler = handlers.RecoveryHandler()(handler)
	handler = handlers.LoggingHandler(os.Stdout, handler)
	srv := &http.Server{Addr: addr, Handler: handler}

	errc := make(chan error, 1)
	go func() {
		log.Printf("[stream] Starting server %v", addr)
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// Serve runs the stream server on addr while produce publishes frames to h.
// When ctx is cancelled or either side fails the other one is stopped. h is
// closed after produce returns, so a frame in flight during shutdown is
// still published. Serve returns the first failure, ctx.Err() if the
// shutdown came from ctx, or nil when produce finished on its own.
func Serve(ctx context.Context, addr string, h *Hub, produce func(ctx context.Context) error) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() {
		errc <- ListenAndServe(runCtx, addr, h)
		cancel()
	}()
	err := produce(runCtx)
	cancel()
	h.Close()
	serr := <-errc
	switch {
	case err != nil && !errors.Is(err, context.Canceled):
		return err
	case serr != nil && !errors.Is(serr, context.Canceled):
		return errors.Wrap(serr, "stream server")
	}
	return ctx.Err()
}

const viewerPage = `<!DOCTYPE html>
<html>
<head><title>wireframe</title></head>
<body style="margin:0;background:#00ffff">
<canvas id="c"></canvas>
<script>
const c = document.getElementById("c");
const g = c.getContext("2d");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.onmessage = (ev) => {
	const f = JSON.parse(ev.data);
	if (f.width && c.width !== f.width) { c.width = f.width; c.height = f.height; }
	g.clearRect(0, 0, c.width, c.height);
	g.fillStyle = g.strokeStyle = "#ff0000";
	for (const [x, y] of f.markers) g.fillRect(Math.trunc(x) - 2, Math.trunc(y) - 2, 5, 5);
	g.beginPath();
	for (const [x0, y0, x1, y1] of f.lines) { g.moveTo(x0, y0); g.lineTo(x1, y1); }
	g.stroke();
};
</script>
</body>
</html>
`
