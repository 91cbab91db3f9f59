package webserver

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"swarmview/internal/debug"
	"swarmview/internal/details"
	"swarmview/pkg/protocol"
)

const wsWriteTimeout = 15 * time.Second

func (srv *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return
	}
	defer ws.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	viewer := srv.bcast.AddViewer(r.RemoteAddr)
	defer srv.bcast.RemoveViewer(viewer)
	debug.LogKV("webserver", "viewer connected", "remote", r.RemoteAddr)

	// The greeting goes only to this socket. New viewers start from the
	// live stream; there is no replay of earlier events.
	greeting, err := protocol.NewEvent(protocol.EventSystem, time.Now(), protocol.SystemData{
		Message:      "Connected to swarm session",
		ActiveAgents: srv.em.ActiveAgents(),
	})
	if err == nil {
		if err := writeEvent(ctx, ws, greeting); err != nil {
			return
		}
	}

	// Detail responses answer only the requesting socket, so they bypass
	// the broadcaster and merge into the write loop here.
	direct := make(chan protocol.Event, 8)
	go srv.readRequests(ctx, cancel, ws, direct)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-viewer.Events():
			if !ok {
				// The broadcaster dropped us for not keeping up.
				ws.Close(websocket.StatusTryAgainLater, "event buffer overflow")
				return
			}
			if err := writeEvent(ctx, ws, ev); err != nil {
				return
			}
		case ev := <-direct:
			if err := writeEvent(ctx, ws, ev); err != nil {
				return
			}
		}
	}
}

// readRequests consumes client-to-server messages. The only request the
// protocol defines is the agent detail lookup; anything else is dropped.
func (srv *Server) readRequests(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn, direct chan<- protocol.Event) {
	defer cancel()
	for {
		_, raw, err := ws.Read(ctx)
		if err != nil {
			return
		}

		ev, err := protocol.Decode(raw)
		if err != nil {
			debug.LogKV("webserver", "dropping malformed client message", "error", err)
			continue
		}
		if ev.Type != protocol.EventGetAgentDetails {
			debug.LogKV("webserver", "ignoring client event", "type", ev.Type)
			continue
		}

		req, err := protocol.DecodeData[protocol.DetailsRequest](ev)
		if err != nil {
			debug.LogKV("webserver", "bad details request", "error", err)
			continue
		}

		now := time.Now()
		resp, err := protocol.NewEvent(protocol.EventAgentDetails, now, details.Synthesize(req.AgentID, now))
		if err != nil {
			continue
		}
		select {
		case direct <- resp:
		case <-ctx.Done():
			return
		}
	}
}

func writeEvent(ctx context.Context, ws *websocket.Conn, ev protocol.Event) error {
	raw, err := protocol.Encode(ev)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return ws.Write(writeCtx, websocket.MessageText, raw)
}
