package http

import (
	"context"
	"errors"
	"io"
	"net"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/okofalt/cellsync-server/internal/core"
	"github.com/okofalt/cellsync-server/internal/proto"
	"github.com/okofalt/cellsync-server/internal/store"
)

// WSHandler upgrades HTTP connections and bridges them to the room.
type WSHandler struct {
	room  *core.Room
	store store.Store
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(room *core.Room, st store.Store, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{room: room, store: st, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	remote := remoteHost(r.RemoteAddr)
	if h.store != nil {
		banned, err := h.store.IsBanned(ctx, remote)
		if err != nil {
			h.log.Error().Err(err).Str("remote", remote).Msg("ban lookup failed")
		} else if banned {
			h.log.Info().Str("remote", remote).Msg("rejected banned address")
			stdhttp.Error(w, "forbidden", stdhttp.StatusForbidden)
			return
		}
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString(), remote)
	h.room.Attach(client)
	defer h.room.Detach(client)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if errors.Is(err, errForceClosed) {
			status = websocket.StatusPolicyViolation
			reason = "connection closed by server"
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// errForceClosed marks a teardown initiated by the room: capacity
// rejection, staleness eviction, or an admin kick.
var errForceClosed = errors.New("force closed")

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		if err := h.room.HandleFrame(client, inbound); err != nil {
			if errors.Is(err, core.ErrRoomFull) {
				return errForceClosed
			}
			// Every other failure is a silent drop by policy.
			h.log.Debug().Err(err).Str("conn_id", client.ID).Str("type", inbound.Type).Msg("frame dropped")
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case frame, ok := <-client.Send():
			if !ok {
				return nil
			}
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws frame")
				return err
			}
		case <-client.Done():
			// flush whatever is queued (e.g. the capacity error frame)
			// before tearing down
			for {
				select {
				case frame := <-client.Send():
					if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
						return errForceClosed
					}
				default:
					return errForceClosed
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
