package web

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/net/websocket"

	"github.com/vovakirdan/color-runner/internal/game"
	"github.com/vovakirdan/color-runner/internal/storage"
)

// Client message types.
const (
	MessageJump = "jump"
)

// ClientMessage is a message from the browser.
type ClientMessage struct {
	Type string `json:"type"`
}

// readTimeout closes connections that stop talking; browsers are expected
// to send at least an occasional message or ping.
const readTimeout = 5 * time.Minute

// HandlePlay runs one game for the lifetime of a WebSocket connection.
func (s *Server) HandlePlay() func(ws *websocket.Conn) {
	return func(ws *websocket.Conn) {
		if !s.acquire() {
			_ = ws.Close()
			return
		}
		defer s.wg.Done()

		addr := ws.Request().RemoteAddr
		logger := s.logger.With("remote", addr)

		s.sessions.Add(1)
		logger.Info("session started")
		defer func() {
			s.sessions.Add(-1)
			_ = ws.Close()
			logger.Info("session ended")
		}()

		sess := newSession(s, ws, logger)
		if err := sess.run(s.ctx); err != nil {
			logger.Warn("session error", "err", err)
		}
	}
}

// session owns one Machine. Jumps and frames are applied on the run
// goroutine; the read goroutine only forwards jumps.
type session struct {
	conn    *websocket.Conn
	machine *game.Machine
	loop    *game.FrameLoop
	tick    time.Duration
	logger  *log.Logger

	recorder *storage.RunRecorder

	latest game.Snapshot
	dirty  bool
}

func newSession(s *Server, conn *websocket.Conn, logger *log.Logger) *session {
	loop := game.NewFrameLoop()
	machine := game.NewMachine(s.cfg.Game, loop,
		game.WithHighScores(s.highScores),
		game.WithLogger(logger),
	)

	sess := &session{
		conn:    conn,
		machine: machine,
		loop:    loop,
		tick:    time.Second / time.Duration(s.cfg.TickRate),
		logger:  logger,

		recorder: storage.NewRunRecorder(s.store, storage.GameID, logger),
	}
	machine.Subscribe(sess.observe)
	machine.Subscribe(sess.recorder.Observe)
	return sess
}

func (sess *session) observe(snap game.Snapshot) {
	sess.latest = snap
	sess.dirty = true
}

// run pumps frames and jumps until the client leaves or ctx ends.
func (sess *session) run(ctx context.Context) error {
	defer sess.recorder.Close()
	defer sess.machine.Close()

	jumps := make(chan struct{}, 16)
	readErr := make(chan error, 1)
	go sess.readLoop(jumps, readErr)

	// Send the waiting state so the client can draw straight away.
	if err := websocket.JSON.Send(sess.conn, sess.machine.Snapshot()); err != nil {
		return err
	}

	ticker := time.NewTicker(sess.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if isClosed(err) {
				return nil
			}
			return err
		case <-jumps:
			sess.machine.Jump()
		case <-ticker.C:
			sess.loop.Fire()
		}

		if sess.dirty {
			sess.dirty = false
			if err := websocket.JSON.Send(sess.conn, sess.latest); err != nil {
				if isClosed(err) {
					return nil
				}
				return err
			}
		}
	}
}

// readLoop forwards jump messages until the connection fails.
func (sess *session) readLoop(jumps chan<- struct{}, readErr chan<- error) {
	for {
		var msg ClientMessage
		_ = sess.conn.SetReadDeadline(time.Now().Add(readTimeout))
		if err := websocket.JSON.Receive(sess.conn, &msg); err != nil {
			readErr <- err
			return
		}

		switch msg.Type {
		case MessageJump:
			select {
			case jumps <- struct{}{}:
			default:
				sess.logger.Debug("jump dropped, queue full")
			}
		default:
			sess.logger.Debug("unknown message", "type", msg.Type)
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
