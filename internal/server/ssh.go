package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"

	"shoreline/internal/maps"
	"shoreline/internal/render"
	"shoreline/internal/retile"
	"shoreline/internal/world"
)

// Action is a preview command decoded from terminal input.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionToggle
	ActionNextMap
	ActionQuit
)

// SSHServer serves the interactive map preview over SSH.
type SSHServer struct {
	world   *world.World
	addr    string
	hostKey string
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr string, hostKey string, w *world.World) *SSHServer {
	return &SSHServer{
		world:   w,
		addr:    addr,
		hostKey: hostKey,
	}
}

// Start listens for SSH connections until ctx is canceled.
func (s *SSHServer) Start(ctx context.Context) error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(ctx, sess)
		},
	}

	// Set host key
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	slog.Info("SSH server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("SSH server shutting down")
		if err := server.Close(); err != nil {
			slog.Warn("closing SSH server", "err", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// session is the per-connection preview state.
type session struct {
	mapName string
	x, y    int
	status  string
}

func (s *SSHServer) handleSession(ctx context.Context, sess ssh.Session) {
	// Require PTY
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}
	slog.Info("session opened", "user", username, "remote", sess.RemoteAddr().String())
	defer slog.Info("session closed", "user", username)

	st := &session{mapName: s.world.DefaultMap()}
	s.world.View(st.mapName, func(m *maps.Map, _ *retile.Layout) {
		st.x, st.y = m.SpawnX, m.SpawnY
	})

	// Terminal dimensions
	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	engine := render.NewEngine(termW, termH)

	// Setup terminal
	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	updates, unsubscribe := s.world.Subscribe()
	defer unsubscribe()

	inputCh := make(chan Action, 64)
	quitCh := make(chan struct{})
	resizeCh := make(chan struct{}, 1)

	// Goroutine: read input
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quitCh)
				return
			}
			for _, action := range parseInput(buf[:n]) {
				if action == ActionQuit {
					close(quitCh)
					return
				}
				select {
				case inputCh <- action:
				default:
				}
			}
		}
	}()

	// Goroutine: handle window resizes
	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
			select {
			case resizeCh <- struct{}{}:
			default:
			}
		}
	}()

	draw := func() {
		termMu.Lock()
		w, h := termW, termH
		termMu.Unlock()

		var output string
		s.world.View(st.mapName, func(m *maps.Map, l *retile.Layout) {
			output = engine.Render(render.Scene{
				Layout:   l,
				Map:      m,
				CursorX:  st.x,
				CursorY:  st.y,
				MapIndex: s.world.Index(st.mapName),
				MapCount: len(s.world.Names()),
				Status:   st.status,
			}, w, h)
		})
		if len(output) > 0 {
			io.WriteString(sess, output)
		}
	}

	draw()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sess.Context().Done():
			return
		case <-quitCh:
			return
		case action := <-inputCh:
			s.apply(ctx, st, action)
		case name := <-updates:
			if name != st.mapName {
				continue
			}
		case <-resizeCh:
		}
		draw()
	}
}

// apply updates the session for one action.
func (s *SSHServer) apply(ctx context.Context, st *session, action Action) {
	dx, dy := 0, 0
	switch action {
	case ActionUp:
		dy = -1
	case ActionDown:
		dy = 1
	case ActionLeft:
		dx = -1
	case ActionRight:
		dx = 1
	case ActionNextMap:
		st.mapName = s.world.Next(st.mapName)
		s.world.View(st.mapName, func(m *maps.Map, _ *retile.Layout) {
			st.x, st.y = m.SpawnX, m.SpawnY
		})
		st.status = ""
		return
	case ActionToggle:
		p, err := s.world.Toggle(ctx, st.mapName, st.x, st.y)
		if err != nil {
			st.status = err.Error()
			return
		}
		if p.Water {
			st.status = "water " + p.Shape.String()
		} else {
			st.status = "land " + p.Asset
		}
		return
	default:
		return
	}

	s.world.View(st.mapName, func(m *maps.Map, _ *retile.Layout) {
		if m.InBounds(st.x+dx, st.y+dy) {
			st.x += dx
			st.y += dy
		}
	})
}

// parseInput converts raw bytes into preview actions.
// Handles WASD, arrow key escape sequences, space, Tab, Q, and Ctrl-C.
func parseInput(data []byte) []Action {
	var actions []Action
	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, ActionUp)
			case 'B':
				actions = append(actions, ActionDown)
			case 'C':
				actions = append(actions, ActionRight)
			case 'D':
				actions = append(actions, ActionLeft)
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			actions = append(actions, ActionUp)
		case 's', 'S':
			actions = append(actions, ActionDown)
		case 'a', 'A':
			actions = append(actions, ActionLeft)
		case 'd', 'D':
			actions = append(actions, ActionRight)
		case ' ':
			actions = append(actions, ActionToggle)
		case '\t':
			actions = append(actions, ActionNextMap)
		case 'q', 'Q':
			actions = append(actions, ActionQuit)
		case 3: // Ctrl-C
			actions = append(actions, ActionQuit)
		}
		i += size
	}
	return actions
}
