package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// wsMessage is every frame the server pushes.
type wsMessage struct {
	Type   string          `json:"type"`
	Status *statusResponse `json:"status,omitempty"`
	Error  *apiError       `json:"error,omitempty"`
}

// handleWebsocket accepts JSON param patches from the client and pushes status
// every deps.StatusInterval plus once after each accepted patch.
func handleWebsocket(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	var opts websocket.AcceptOptions
	if deps.CrossOrigin {
		opts.OriginPatterns = []string{"*"}
	}
	conn, err := websocket.Accept(w, r, &opts)
	if err != nil {
		deps.Logger.Errorf("ws", "accept failed: %v", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	replies := make(chan wsMessage, 8)
	go func() {
		defer cancel()
		readPatches(ctx, conn, deps, replies)
	}()

	ticker := time.NewTicker(deps.StatusInterval)
	defer ticker.Stop()

	send := func(msg wsMessage) bool {
		writeCtx, writeCancel := context.WithTimeout(ctx, 5*time.Second)
		defer writeCancel()
		if err := wsjson.Write(writeCtx, conn, msg); err != nil {
			if ctx.Err() == nil {
				deps.Logger.Errorf("ws", "write failed: %v", err)
			}
			return false
		}
		return true
	}
	status := func() wsMessage {
		st := newStatus(deps.Store)
		return wsMessage{Type: "status", Status: &st}
	}

	if !send(status()) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case msg := <-replies:
			if !send(msg) {
				return
			}
		case <-ticker.C:
			if !send(status()) {
				return
			}
		}
	}
}

func readPatches(ctx context.Context, conn *websocket.Conn, deps APIV1Deps, replies chan<- wsMessage) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == -1 && ctx.Err() == nil {
				deps.Logger.Errorf("ws", "read failed: %v", err)
			}
			return
		}

		var reply wsMessage
		patch, err := decodePatch(bytes.NewReader(data))
		if err == nil {
			_, err = applyPatch(deps.Store, patch)
		}
		if err != nil {
			var perr *patchError
			msg := apiError{Error: "internal", Message: err.Error()}
			if errors.As(err, &perr) {
				msg = apiError{Error: perr.code, Message: perr.message}
			}
			reply = wsMessage{Type: "error", Error: &msg}
		} else {
			st := newStatus(deps.Store)
			reply = wsMessage{Type: "status", Status: &st}
		}

		select {
		case replies <- reply:
		case <-ctx.Done():
			return
		}
	}
}
