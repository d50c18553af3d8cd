// Package navigation switches the screen of one live session between views.
package navigation

import (
	"context"
	"log"
	"sync"

	"law_office_app_go/models"

	"github.com/a-h/templ"
)

// View names
const (
	ViewDashboard = "dashboard"
	ViewCases     = "cases"
	ViewTasks     = "tasks"
	ViewMessages  = "msgs"
	ViewMgmt      = "mgmt"
	ViewOffice    = "office"
	ViewDetail    = "detail"
)

// ParamCaseID carries the case shown by the detail view
const ParamCaseID = "case_id"

// Params are read once per navigation and never kept
type Params map[string]string

func (p Params) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// View builds the component for a screen
type View func(ctx context.Context, params Params) templ.Component

// Screen is the client side of the session
type Screen interface {
	SetActiveNav(view string)
	RenderView(ctx context.Context, c templ.Component) error
}

// Chat is the part of the chat session navigation drives
type Chat interface {
	OpenChat(ctx context.Context, caseID string)
	CloseChat()
}

// ViewTracker records which view is current
type ViewTracker interface {
	SetCurrentView(view string)
}

type Controller struct {
	screen Screen
	chat   Chat
	state  ViewTracker

	mu      sync.RWMutex
	views   map[string]View
	current string
	caseID  string // the only param that outlives a render
}

func NewController(screen Screen, chat Chat, state ViewTracker) *Controller {
	return &Controller{
		screen: screen,
		chat:   chat,
		state:  state,
		views:  make(map[string]View),
	}
}

// Register adds or replaces the view for name
func (c *Controller) Register(name string, v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views[name] = v
}

func (c *Controller) lookup(name string) (View, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.views[name]
	return v, ok
}

// NavigateTo renders view and opens or closes the chat to match it.
// Unknown views are logged and leave the screen unchanged.
func (c *Controller) NavigateTo(ctx context.Context, view string, params Params) error {
	render, ok := c.lookup(view)
	if !ok {
		log.Printf("[NAV] unknown view %q", view)
		return nil
	}

	c.screen.SetActiveNav(view)
	if err := c.screen.RenderView(ctx, render(ctx, params)); err != nil {
		return err
	}

	if caseID := params.Get(ParamCaseID); view == ViewDetail && caseID != "" {
		c.chat.OpenChat(ctx, caseID)
	} else {
		c.chat.CloseChat()
	}

	c.mu.Lock()
	c.current, c.caseID = view, params.Get(ParamCaseID)
	c.mu.Unlock()

	c.state.SetCurrentView(view)
	return nil
}

// Refresh re-renders the current view after a change. Filters come from the
// caller with each refresh; only the shown case is remembered. The chat is left alone.
func (c *Controller) Refresh(ctx context.Context, filters Params) error {
	c.mu.RLock()
	view, caseID := c.current, c.caseID
	c.mu.RUnlock()
	if view == "" {
		return nil
	}
	params := make(Params, len(filters)+1)
	for k, v := range filters {
		params[k] = v
	}
	if caseID != "" {
		params[ParamCaseID] = caseID
	}
	render, ok := c.lookup(view)
	if !ok {
		return nil
	}
	return c.screen.RenderView(ctx, render(ctx, params))
}

// Current returns the active view and the case it shows, if any
func (c *Controller) Current() (string, Params) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.caseID == "" {
		return c.current, nil
	}
	return c.current, Params{ParamCaseID: c.caseID}
}

// OpenCase shows the detail view of a case
func (c *Controller) OpenCase(ctx context.Context, caseID string) error {
	return c.NavigateTo(ctx, ViewDetail, Params{ParamCaseID: caseID})
}

func (c *Controller) BackToCases(ctx context.Context) error {
	return c.NavigateTo(ctx, ViewCases, nil)
}

// Init shows the landing view for the signed-in user
func (c *Controller) Init(ctx context.Context, user *models.User) error {
	return c.NavigateTo(ctx, LandingView(user), nil)
}

// LandingView is the dashboard for admins and the case list for everyone else
func LandingView(user *models.User) string {
	if user != nil && user.IsAdmin() {
		return ViewDashboard
	}
	return ViewCases
}
