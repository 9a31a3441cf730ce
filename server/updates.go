package server

import (
	"net/http"

	"github.com/etnz/dashboard"
	"github.com/etnz/dashboard/poll"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// Notice is sent to websocket clients each time a snapshot is applied.
type Notice struct {
	Seq uint64              `json:"seq"`
	TS  dashboard.Timestamp `json:"ts"`
}

// noticeBuffer is the number of notices a slow client may lag behind before
// notices are dropped.
const noticeBuffer = 8

// handleUpdates handles GET /ws: it pushes a Notice per applied update until
// the client goes away.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	notices := make(chan Notice, noticeBuffer)
	cancel := s.source.Subscribe(func(u poll.Update) {
		// Non-blocking send (drop if channel full)
		select {
		case notices <- Notice{Seq: u.Seq, TS: u.Snapshot.TS}:
		default:
			s.log.Warn().Uint64("seq", u.Seq).Msg("Update channel full, dropping notice")
		}
	})
	defer cancel()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: []string{"*"}})
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to accept websocket")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "unexpected close")

	// the client never sends: CloseRead cancels ctx once it goes away.
	ctx := conn.CloseRead(r.Context())
	s.log.Debug().Msg("Client connected to updates")

	for {
		select {
		case <-ctx.Done():
			s.log.Debug().Msg("Client disconnected from updates")
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case n := <-notices:
			if err := wsjson.Write(ctx, conn, n); err != nil {
				if websocket.CloseStatus(err) == -1 {
					s.log.Warn().Err(err).Msg("Failed to push update")
				}
				return
			}
		}
	}
}
