package server

import (
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser chat frontends connect from arbitrary origins.
	CheckOrigin: func(*http.Request) bool { return true },
}

// serveWebsocket accepts websocket upgrades on /ws and feeds each
// upgraded connection through the same handshake and command loop as a
// raw TCP client.
func (s *Server) serveWebsocket(ln net.Listener) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed.", http.StatusMethodNotAllowed)
			return
		}
		wc, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		go s.handleConn(&wsConn{wc: wc})
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-s.done
		ln.Close()
	}()
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed && !isClosedErr(err) {
		slog.Error("websocket server stopped", "err", err)
	}
}

// wsConn adapts a websocket connection to net.Conn so the line framer
// can treat message payloads as a byte stream.
type wsConn struct {
	wc     *websocket.Conn
	reader io.Reader
}

func (w *wsConn) Read(p []byte) (int, error) {
	for {
		if w.reader == nil {
			_, r, err := w.wc.NextReader()
			if err != nil {
				return 0, err
			}
			w.reader = r
		}
		n, err := w.reader.Read(p)
		if err == io.EOF {
			w.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (w *wsConn) Write(p []byte) (int, error) {
	if err := w.wc.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConn) Close() error {
	_ = w.wc.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return w.wc.Close()
}

func (w *wsConn) LocalAddr() net.Addr                { return w.wc.LocalAddr() }
func (w *wsConn) RemoteAddr() net.Addr               { return w.wc.RemoteAddr() }
func (w *wsConn) SetDeadline(t time.Time) error      { return w.wc.SetReadDeadline(t) }
func (w *wsConn) SetReadDeadline(t time.Time) error  { return w.wc.SetReadDeadline(t) }
func (w *wsConn) SetWriteDeadline(t time.Time) error { return w.wc.SetWriteDeadline(t) }
