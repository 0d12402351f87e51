package server

import (
	"log"
	"time"

	"github.com/hersh/blockstack/internal/engine"
	"github.com/hersh/blockstack/internal/mode"
	"github.com/hersh/blockstack/internal/player"
	"github.com/hersh/blockstack/internal/protocol"
)

const (
	tickInterval     = 16 * time.Millisecond
	snapshotInterval = 50 * time.Millisecond
	inboxSize        = 64
)

type command struct {
	typ protocol.MessageType
	raw []byte
}

// Room hosts one session for one connection. The session is only touched
// from the run goroutine.
type Room struct {
	id       string
	conn     *conn
	players  *player.Registry
	reporter engine.Reporter
	logger   *log.Logger
	clock    func() time.Time
	timing   *engine.Timing

	inbox    chan command
	done     chan struct{}
	finished chan struct{}

	session   *engine.Session
	lastState engine.State
}

func newRoom(id string, c *conn, h *Hub) *Room {
	return &Room{
		id:       id,
		conn:     c,
		players:  h.players,
		reporter: h.reporter,
		logger:   h.logger,
		clock:    h.clock,
		timing:   h.timing,
		inbox:    make(chan command, inboxSize),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// deliver queues a client message for the run loop.
func (r *Room) deliver(typ protocol.MessageType, raw []byte) {
	select {
	case r.inbox <- command{typ: typ, raw: raw}:
	case <-r.done:
	}
}

// stop ends the run loop and waits for it to return.
func (r *Room) stop() {
	close(r.done)
	<-r.finished
}

func (r *Room) run() {
	defer close(r.finished)
	tick := time.NewTicker(tickInterval)
	snap := time.NewTicker(snapshotInterval)
	defer tick.Stop()
	defer snap.Stop()

	for {
		select {
		case <-r.done:
			return
		case cmd := <-r.inbox:
			r.handle(cmd)
		case <-tick.C:
			r.advance()
		case <-snap.C:
			r.pushSnapshot()
		}
	}
}

func (r *Room) advance() {
	if r.session == nil {
		return
	}
	r.session.Advance(r.clock())
	if st := r.session.State(); st != r.lastState {
		r.lastState = st
		r.players.SetState(r.id, st.String())
	}
}

func (r *Room) handle(cmd command) {
	switch cmd.typ {
	case protocol.MsgStart:
		var payload protocol.StartPayload
		if err := protocol.ExtractPayload(cmd.raw, &payload); err != nil {
			r.fail("bad start payload")
			return
		}
		r.start(payload)

	case protocol.MsgIntent:
		var payload protocol.IntentPayload
		if err := protocol.ExtractPayload(cmd.raw, &payload); err != nil {
			r.fail("bad intent payload")
			return
		}
		if r.session == nil {
			r.fail("no session")
			return
		}
		r.advance()
		if !r.apply(payload) {
			return
		}

	case protocol.MsgPause, protocol.MsgResume:
		if r.session == nil {
			r.fail("no session")
			return
		}
		r.advance()
		if cmd.typ == protocol.MsgPause {
			r.session.Pause()
		} else {
			r.session.Resume()
		}

	default:
		r.logger.Printf("unknown message type from %s: %s", r.id, cmd.typ)
		r.fail("unknown message type " + string(cmd.typ))
		return
	}
	r.advance()
	r.pushSnapshot()
}

func (r *Room) start(p protocol.StartPayload) {
	cfg, ok := mode.Resolve(p.Mode)
	if !ok {
		r.logger.Printf("player %s: unknown mode %q, using %s", r.id, p.Mode, cfg.Key)
	}
	if p.PlayerName != "" {
		r.players.SetName(r.id, p.PlayerName)
	}
	r.players.SetMode(r.id, cfg.Key)

	defer func() {
		r.lastState = r.session.State()
		r.players.SetState(r.id, r.lastState.String())
	}()
	if r.session != nil {
		if p.PlayerName != "" {
			r.session.SetUsername(p.PlayerName)
		}
		r.session.Restart(cfg)
		return
	}
	name := p.PlayerName
	if pl, ok := r.players.Get(r.id); ok && name == "" {
		name = pl.Name
	}
	opts := []engine.Option{
		engine.WithUsername(name),
		engine.WithLogger(r.logger),
		engine.WithStart(r.clock()),
		engine.WithReporter(engine.ReporterFunc(r.report)),
	}
	if r.timing != nil {
		opts = append(opts, engine.WithTiming(*r.timing))
	}
	r.session = engine.New(cfg, opts...)
	r.session.Start()
}

func (r *Room) apply(p protocol.IntentPayload) bool {
	s := r.session
	switch p.Action {
	case protocol.ActionLeft:
		s.MoveLeft(p.Down)
	case protocol.ActionRight:
		s.MoveRight(p.Down)
	case protocol.ActionSoftDrop:
		s.SoftDrop(p.Down)
	case protocol.ActionRotateCW:
		if p.Down {
			s.RotateCW()
		}
	case protocol.ActionRotateCCW:
		if p.Down {
			s.RotateCCW()
		}
	case protocol.ActionHardDrop:
		if p.Down {
			s.HardDrop()
		}
	case protocol.ActionHold:
		if p.Down {
			s.Hold()
		}
	default:
		r.fail("unknown action " + string(p.Action))
		return false
	}
	return true
}

// report runs inside Session.Advance on the run goroutine.
func (r *Room) report(res engine.Result) {
	r.conn.send(protocol.Envelope{Type: protocol.MsgResult, Payload: res})
	r.players.SetState(r.id, engine.StateGameOver.String())
	if r.reporter != nil {
		r.reporter.Report(res)
	}
}

func (r *Room) pushSnapshot() {
	if r.session == nil {
		return
	}
	r.conn.send(protocol.Envelope{
		Type:    protocol.MsgSnapshot,
		Payload: protocol.FromSnapshot(r.session.Snapshot()),
	})
}

func (r *Room) fail(msg string) {
	r.conn.send(protocol.Envelope{Type: protocol.MsgError, Payload: protocol.ErrorPayload{Message: msg}})
}
