package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"law_office_app_go/config"
	"law_office_app_go/db"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/appstate"
	"law_office_app_go/services/chat"
	"law_office_app_go/services/navigation"
	"law_office_app_go/templates/views"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a-h/templ"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveReadLimit  = 64 * 1024
)

// RedirectFrame tells the shell to leave the app
const RedirectFrame = "redirect:/login"

// now is replaced in tests
var now = time.Now

var liveUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     sameOrigin,
}

// sameOrigin rejects sockets opened from other sites with the user's cookie
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// liveSession is one browser tab. It owns the tab's state container, chat
// session and navigation controller; actions are handled one at a time.
type liveSession struct {
	conn   *websocket.Conn
	ctx    context.Context
	db     *gorm.DB
	cfg    *config.Config
	lang   string
	user   *models.User
	office *models.Office

	writeMu sync.Mutex
	closed  atomic.Bool
	dirty   atomic.Bool

	state *appstate.State
	chat  *chat.Session
	nav   *navigation.Controller

	unsubscribeAuth func()
}

// LiveHandler upgrades /ws and serves the tab until it disconnects
func LiveHandler(c echo.Context) error {
	user := currentUser(c)
	office := middleware.GetCurrentOffice(c)
	if user == nil || office == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	conn, err := liveUpgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("[WARNING] live socket upgrade failed for user %s: %v", user.ID, err)
		return nil
	}
	defer conn.Close()

	s := newLiveSession(c.Request().Context(), conn, db.DB, user, office)
	s.cfg = getConfig(c)
	s.lang = middleware.GetLocale(c)
	defer s.close()

	log.Printf("event=live_session action=open user_id=%s office_id=%s", user.ID, office.ID)
	s.run()
	log.Printf("event=live_session action=close user_id=%s office_id=%s", user.ID, office.ID)
	return nil
}

func newLiveSession(ctx context.Context, conn *websocket.Conn, gdb *gorm.DB, user *models.User, office *models.Office) *liveSession {
	s := &liveSession{
		conn:   conn,
		ctx:    ctx,
		db:     gdb,
		user:   user,
		office: office,
	}

	s.state = appstate.New(services.NewOfficeBackend(gdb, office.ID))
	s.state.Subscribe(func() { s.dirty.Store(true) })

	store := services.NewChatService(gdb, broker).ForOffice(office.ID)
	s.chat = chat.NewSession(&chatPanel{s: s}, store, broker)
	s.nav = navigation.NewController(&viewScreen{s: s}, s.chat, s.state)
	registerViews(s)

	s.unsubscribeAuth = services.AuthEvents.OnAuthStateChange(func(event, userID string) {
		if event == services.AuthEventSignedOut && userID == user.ID {
			s.writeRaw([]byte(RedirectFrame))
		}
	})
	return s
}

func (s *liveSession) close() {
	s.closed.Store(true)
	if s.unsubscribeAuth != nil {
		s.unsubscribeAuth()
	}
	s.chat.CloseChat()
}

// run loads the office data, shows the landing view and reads actions until the socket ends
func (s *liveSession) run() {
	s.conn.SetReadLimit(liveReadLimit)
	_ = s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(done)

	if err := s.state.LoadInitialData(s.ctx); err != nil {
		s.alert("errors.generic")
	}
	if err := s.nav.Init(s.ctx, s.user); err != nil {
		log.Printf("[NAV] initial render failed for user %s: %v", s.user.ID, err)
		return
	}

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("event=live_session action=read status=failed user_id=%s error=%v", s.user.ID, err)
			}
			return
		}
		form, err := parseLiveForm(raw)
		if err != nil {
			log.Printf("event=live_session action=parse status=failed user_id=%s error=%v", s.user.ID, err)
			continue
		}
		s.dispatch(s.ctx, form)
	}
}

func (s *liveSession) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// send renders the fragments into one frame
func (s *liveSession) send(parts ...templ.Component) error {
	var buf bytes.Buffer
	for _, part := range parts {
		if err := part.Render(s.ctx, &buf); err != nil {
			log.Printf("event=live_session action=render status=failed user_id=%s error=%v", s.user.ID, err)
			return err
		}
	}
	return s.writeRaw(buf.Bytes())
}

func (s *liveSession) writeRaw(frame []byte) error {
	if s.closed.Load() {
		return errConnClosed
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		s.closed.Store(true)
		return err
	}
	return nil
}

var errConnClosed = errors.New("live socket closed")

func (s *liveSession) alert(key string) {
	_ = s.send(views.Alert(translateCtx(s.ctx, key)))
}

func (s *liveSession) isAdmin() bool {
	return s.user != nil && s.user.IsAdmin()
}

// chatPanel draws the chat session into the shell's chat window
type chatPanel struct {
	s *liveSession
}

func (p *chatPanel) Available() bool {
	return !p.s.closed.Load()
}

func (p *chatPanel) Show(caseID string) {
	c := p.s.state.CurrentCase()
	if c == nil || c.ID != caseID {
		loaded, err := services.GetCase(p.s.db.WithContext(p.s.ctx), p.s.office.ID, caseID)
		if err != nil {
			log.Printf("[CHAT] title lookup failed for case %s: %v", caseID, err)
		}
		c = loaded
	}
	_ = p.s.send(views.OOB(views.TargetChatTitle, views.ChatTitle(c)), views.ChatState(true, false, true))
}

func (p *chatPanel) Hide() {
	_ = p.s.send(
		views.ChatState(false, false, true),
		views.OOB(views.TargetChatTitle, templ.NopComponent),
		views.OOB(views.TargetChatBody, templ.NopComponent),
	)
}

func (p *chatPanel) SetMinimized(minimized bool) {
	_ = p.s.send(views.ChatState(true, minimized, true))
}

func (p *chatPanel) RenderMessages(caseID string, msgs []models.ChatMessage) {
	_ = p.s.send(views.OOB(views.TargetChatBody, views.ChatMessages(msgs)))
}

func (p *chatPanel) RenderError(caseID string, err error) {
	_ = p.s.send(views.OOB(views.TargetChatBody, views.ChatError()))
}

func (p *chatPanel) ClearInput() {
	_ = p.s.send(views.ChatInput(true))
}

func (p *chatPanel) Alert(err error) {
	key := errorKey(err)
	if key == "errors.save_failed" {
		key = "errors.send_failed"
	}
	p.s.alert(key)
}

// viewScreen renders navigation into the shell
type viewScreen struct {
	s *liveSession
}

func (v *viewScreen) SetActiveNav(view string) {
	_ = v.s.send(views.OOB(views.TargetNav, views.Nav(view, v.s.isAdmin())))
}

func (v *viewScreen) RenderView(ctx context.Context, c templ.Component) error {
	return v.s.send(views.OOB(views.TargetView, c))
}

// liveForm is one message from a ws-send form: field name to a string, or a
// list for repeated fields such as checkboxes
type liveForm map[string]interface{}

func parseLiveForm(raw []byte) (liveForm, error) {
	var form liveForm
	if err := json.Unmarshal(raw, &form); err != nil {
		return nil, err
	}
	delete(form, "HEADERS")
	return form, nil
}

// Get returns the field, the first value of a list, or ""
func (f liveForm) Get(key string) string {
	switch v := f[key].(type) {
	case string:
		return v
	case []interface{}:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	}
	return ""
}

// List returns every value of a repeated field
func (f liveForm) List(key string) []string {
	switch v := f[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
