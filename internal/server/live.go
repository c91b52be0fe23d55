package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.jetify.com/typeid/v2"

	"github.com/matzehuels/figlayout/pkg/errors"
	"github.com/matzehuels/figlayout/pkg/figfile"
	"github.com/matzehuels/figlayout/pkg/figure"
	"github.com/matzehuels/figlayout/pkg/legend"
	"github.com/matzehuels/figlayout/pkg/pipeline"
)

const (
	writeWait  = 10 * time.Second
	maxMsgSize = 1 << 20
	sendBuffer = 64
)

// Client message types.
const (
	TypeOpen           = "open"
	TypeResize         = "resize"
	TypeMargin         = "margin"
	TypePadding        = "padding"
	TypeLegendLocation = "legend_location"
	TypeTitle          = "title"
	TypeRadius         = "radius"
	TypeRelayout       = "relayout"
)

// Server message types.
const (
	TypeReady         = "ready"
	TypeMarginUpdated = "margin_updated"
	TypeLegendUpdated = "legend_updated"
	TypeError         = "error"
)

// ClientMessage is a message from a live client. Only the fields of its
// type are read.
type ClientMessage struct {
	Type     string         `json:"type"`
	Document string         `json:"document,omitempty"`
	Format   figfile.Format `json:"format,omitempty"`
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	Margin   *figure.Margin `json:"margin,omitempty"`
	X        float64        `json:"x,omitempty"`
	Y        float64        `json:"y,omitempty"`
	Location string         `json:"location,omitempty"`
	Title    string         `json:"title,omitempty"`
	Mark     string         `json:"mark,omitempty"`
	Radius   float64        `json:"radius,omitempty"`
}

// ServerMessage is a message to a live client.
type ServerMessage struct {
	Type     string           `json:"type"`
	Session  string           `json:"session,omitempty"`
	Geometry *figure.Geometry `json:"geometry,omitempty"`
	Legend   *legend.Result   `json:"legend,omitempty"`
	Code     errors.Code      `json:"code,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// liveSession drives one figure from one websocket.
type liveSession struct {
	id     string
	srv    *Server
	conn   *websocket.Conn
	send   chan ServerMessage
	fig    *figure.Figure
	built  *figfile.Built
	cancel context.CancelFunc
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.cfg.Origins(),
	})
	if err != nil {
		s.logger.Debug("websocket accept failed", "err", err)
		return
	}
	conn.SetReadLimit(maxMsgSize)

	ctx, cancel := context.WithCancel(r.Context())
	ls := &liveSession{
		id:     typeid.MustGenerate("live").String(),
		srv:    s,
		conn:   conn,
		send:   make(chan ServerMessage, sendBuffer),
		cancel: cancel,
	}
	defer ls.close()

	if err := ls.open(ctx); err != nil {
		writeCtx, cancel := context.WithTimeout(ctx, writeWait)
		_ = wsjson.Write(writeCtx, conn, errorMessage(err))
		cancel()
		conn.Close(websocket.StatusPolicyViolation, "open failed")
		return
	}
	go ls.writePump(ctx)
	ls.readPump(ctx)
}

// open reads the first message, which must carry the document.
func (ls *liveSession) open(ctx context.Context) error {
	var msg ClientMessage
	if err := wsjson.Read(ctx, ls.conn, &msg); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read open message")
	}
	if msg.Type != TypeOpen {
		return errors.New(errors.ErrCodeInvalidInput, "first message must be %q, got %q", TypeOpen, msg.Type)
	}
	format := msg.Format
	if format == "" {
		format = figfile.FormatTOML
	}
	doc, err := figfile.Parse([]byte(msg.Document), format)
	if err != nil {
		return err
	}

	fig, built, err := doc.Open(figure.WithLogger(ls.srv.logger.With("session", ls.id)))
	if err != nil {
		return err
	}
	ls.fig, ls.built = fig, built

	w, h := msg.Width, msg.Height
	if w == 0 && h == 0 {
		w, h = doc.Width, doc.Height
	}
	if w == 0 && h == 0 {
		w, h = pipeline.DefaultWidth, pipeline.DefaultHeight
	}
	fig.Display(w, h)

	settleCtx, cancel := context.WithTimeout(ctx, ls.srv.cfg.SettleTimeout)
	defer cancel()
	if err := fig.Settle(settleCtx); err != nil {
		return errors.Wrap(errors.ErrCodeTimeout, err, "figure did not settle")
	}

	fig.Subscribe(ls.notify)
	g := fig.Geometry()
	l := fig.Legend()
	ls.push(ServerMessage{Type: TypeReady, Session: ls.id, Geometry: &g, Legend: &l})
	ls.srv.logger.Debug("live session opened", "session", ls.id, "marks", len(doc.Marks))
	return nil
}

// notify runs on the figure goroutine and must not block.
func (ls *liveSession) notify(n figure.Notification) {
	switch n := n.(type) {
	case figure.MarginUpdated:
		g := n.Geometry
		ls.push(ServerMessage{Type: TypeMarginUpdated, Geometry: &g})
	case figure.LegendUpdated:
		l := n.Legend
		ls.push(ServerMessage{Type: TypeLegendUpdated, Legend: &l})
	}
}

func (ls *liveSession) push(m ServerMessage) {
	select {
	case ls.send <- m:
	default:
		ls.srv.logger.Warn("live send buffer full, dropping message", "session", ls.id, "type", m.Type)
	}
}

func (ls *liveSession) fail(err error) { ls.push(errorMessage(err)) }

func errorMessage(err error) ServerMessage {
	return ServerMessage{
		Type:    TypeError,
		Code:    errors.GetCodeOr(err, errors.ErrCodeInternal),
		Message: errors.UserMessage(err),
	}
}

func (ls *liveSession) readPump(ctx context.Context) {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, ls.conn, &msg); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				ls.srv.logger.Debug("live read error", "session", ls.id, "err", err)
			}
			return
		}
		if err := ls.apply(msg); err != nil {
			ls.fail(err)
		}
	}
}

// apply turns a client message into a figure or model change.
func (ls *liveSession) apply(msg ClientMessage) error {
	model := ls.built.Model
	switch msg.Type {
	case TypeResize:
		if err := errors.ValidateNonNegative("width", msg.Width); err != nil {
			return err
		}
		if err := errors.ValidateNonNegative("height", msg.Height); err != nil {
			return err
		}
		ls.fig.Resize(msg.Width, msg.Height)
	case TypeMargin:
		if msg.Margin == nil {
			return errors.New(errors.ErrCodeInvalidInput, "margin message without margin")
		}
		mg := *msg.Margin
		for _, side := range []struct {
			name  string
			value float64
		}{{"margin top", mg.Top}, {"margin right", mg.Right}, {"margin bottom", mg.Bottom}, {"margin left", mg.Left}} {
			if err := errors.ValidateNonNegative(side.name, side.value); err != nil {
				return err
			}
		}
		model.SetMargin(mg)
	case TypePadding:
		for name, v := range map[string]float64{"x": msg.X, "y": msg.Y} {
			if err := errors.ValidateFraction("padding "+name, v); err != nil {
				return err
			}
		}
		model.SetPadding(msg.X, msg.Y)
	case TypeLegendLocation:
		loc, err := legend.ParseLocation(msg.Location)
		if err != nil {
			return err
		}
		model.SetLegendLocation(loc)
	case TypeTitle:
		model.SetTitle(msg.Title)
	case TypeRadius:
		m, ok := ls.built.Marks[msg.Mark]
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "unknown mark %q", msg.Mark)
		}
		m.SetRadius(msg.Radius)
	case TypeRelayout:
		ls.fig.Relayout()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown message type %q", msg.Type)
	}
	return nil
}

func (ls *liveSession) writePump(ctx context.Context) {
	for {
		select {
		case msg := <-ls.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := wsjson.Write(writeCtx, ls.conn, msg)
			cancel()
			if err != nil {
				ls.srv.logger.Debug("live write error", "session", ls.id, "err", err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (ls *liveSession) close() {
	ls.cancel()
	if ls.fig != nil {
		ls.fig.Close()
	}
	ls.conn.Close(websocket.StatusNormalClosure, "")
	ls.srv.logger.Debug("live session closed", "session", ls.id)
}
