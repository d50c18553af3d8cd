package navigation

import (
	"context"
	"errors"
	"io"
	"testing"

	"law_office_app_go/models"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []string
}

func (r *recorder) add(s string) { r.calls = append(r.calls, s) }

type fakeScreen struct {
	rec       *recorder
	active    string
	renderErr error
}

func (s *fakeScreen) SetActiveNav(view string) {
	s.active = view
	s.rec.add("nav:" + view)
}

func (s *fakeScreen) RenderView(ctx context.Context, c templ.Component) error {
	if s.renderErr != nil {
		return s.renderErr
	}
	s.rec.add("render")
	return c.Render(ctx, io.Discard)
}

type mockChat struct {
	mock.Mock
	rec *recorder
}

func (m *mockChat) OpenChat(ctx context.Context, caseID string) {
	m.Called(caseID)
	m.rec.add("open:" + caseID)
}

func (m *mockChat) CloseChat() {
	m.Called()
	m.rec.add("close")
}

type fakeTracker struct {
	rec  *recorder
	view string
}

func (f *fakeTracker) SetCurrentView(view string) {
	f.view = view
	f.rec.add("view:" + view)
}

func textView(name string, seen *Params) View {
	return func(ctx context.Context, params Params) templ.Component {
		if seen != nil {
			*seen = params
		}
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, name)
			return err
		})
	}
}

func newTestController() (*Controller, *fakeScreen, *mockChat, *fakeTracker, *recorder) {
	rec := &recorder{}
	screen := &fakeScreen{rec: rec}
	chat := &mockChat{rec: rec}
	tracker := &fakeTracker{rec: rec}
	c := NewController(screen, chat, tracker)
	for _, v := range []string{ViewDashboard, ViewCases, ViewTasks, ViewMessages, ViewMgmt, ViewOffice, ViewDetail} {
		c.Register(v, textView(v, nil))
	}
	return c, screen, chat, tracker, rec
}

func TestNavigateTo_DetailOpensChat(t *testing.T) {
	c, screen, chat, tracker, rec := newTestController()
	chat.On("OpenChat", "case-1").Once()

	err := c.OpenCase(context.Background(), "case-1")

	require.NoError(t, err)
	chat.AssertExpectations(t)
	assert.Equal(t, ViewDetail, screen.active)
	assert.Equal(t, ViewDetail, tracker.view)
	assert.Equal(t, []string{"nav:detail", "render", "open:case-1", "view:detail"}, rec.calls)
}

func TestNavigateTo_OtherViewsCloseChat(t *testing.T) {
	c, _, chat, tracker, _ := newTestController()
	chat.On("CloseChat").Times(3)

	require.NoError(t, c.NavigateTo(context.Background(), ViewTasks, nil))
	require.NoError(t, c.NavigateTo(context.Background(), ViewMgmt, Params{"search": "x"}))
	require.NoError(t, c.BackToCases(context.Background()))

	chat.AssertExpectations(t)
	chat.AssertNotCalled(t, "OpenChat", mock.Anything)
	assert.Equal(t, ViewCases, tracker.view)
}

func TestNavigateTo_DetailWithoutCaseClosesChat(t *testing.T) {
	c, _, chat, _, _ := newTestController()
	chat.On("CloseChat").Once()

	require.NoError(t, c.NavigateTo(context.Background(), ViewDetail, nil))

	chat.AssertExpectations(t)
}

func TestNavigateTo_UnknownView(t *testing.T) {
	c, screen, chat, tracker, rec := newTestController()

	err := c.NavigateTo(context.Background(), "reports", nil)

	assert.NoError(t, err)
	assert.Empty(t, rec.calls)
	assert.Empty(t, screen.active)
	assert.Empty(t, tracker.view)
	chat.AssertNotCalled(t, "CloseChat")
}

func TestNavigateTo_RenderErrorStops(t *testing.T) {
	c, screen, chat, tracker, _ := newTestController()
	screen.renderErr = errors.New("socket closed")

	err := c.OpenCase(context.Background(), "case-1")

	assert.Error(t, err)
	chat.AssertNotCalled(t, "OpenChat", mock.Anything)
	assert.Empty(t, tracker.view)
}

func TestNavigateTo_PassesParams(t *testing.T) {
	c, _, chat, _, _ := newTestController()
	chat.On("CloseChat")
	var seen Params
	c.Register(ViewCases, textView(ViewCases, &seen))

	require.NoError(t, c.NavigateTo(context.Background(), ViewCases, Params{"status": "overdue"}))

	assert.Equal(t, "overdue", seen.Get("status"))
}

func TestInit_LandingByRole(t *testing.T) {
	c, _, chat, tracker, _ := newTestController()
	chat.On("CloseChat")

	require.NoError(t, c.Init(context.Background(), &models.User{Role: models.RoleAdmin}))
	assert.Equal(t, ViewDashboard, tracker.view)

	require.NoError(t, c.Init(context.Background(), &models.User{Role: models.RoleLawyer}))
	assert.Equal(t, ViewCases, tracker.view)

	assert.Equal(t, ViewCases, LandingView(nil))
}

func TestRefresh_KeepsChat(t *testing.T) {
	c, _, chat, _, rec := newTestController()
	chat.On("OpenChat", "case-1").Once()

	assert.NoError(t, c.Refresh(context.Background(), nil))
	assert.Empty(t, rec.calls)

	require.NoError(t, c.OpenCase(context.Background(), "case-1"))
	rec.calls = nil

	require.NoError(t, c.Refresh(context.Background(), nil))
	assert.Equal(t, []string{"render"}, rec.calls)
	chat.AssertExpectations(t)

	view, params := c.Current()
	assert.Equal(t, ViewDetail, view)
	assert.Equal(t, "case-1", params.Get(ParamCaseID))
}

func TestRefresh_FiltersAreNotKept(t *testing.T) {
	c, _, chat, _, _ := newTestController()
	chat.On("CloseChat")
	chat.On("OpenChat", "case-1")
	var seen Params
	c.Register(ViewCases, textView(ViewCases, &seen))
	c.Register(ViewDetail, textView(ViewDetail, &seen))
	ctx := context.Background()

	require.NoError(t, c.NavigateTo(ctx, ViewCases, Params{"search": "levi", "filter": "open"}))
	assert.Equal(t, "levi", seen.Get("search"))

	// a refresh without filters shows the unfiltered list
	require.NoError(t, c.Refresh(ctx, nil))
	assert.Empty(t, seen.Get("search"))
	assert.Empty(t, seen.Get("filter"))

	require.NoError(t, c.Refresh(ctx, Params{"search": "cohen"}))
	assert.Equal(t, "cohen", seen.Get("search"))

	_, params := c.Current()
	assert.Nil(t, params)

	// the shown case survives, filters sent with the refresh are merged in
	require.NoError(t, c.OpenCase(ctx, "case-1"))
	require.NoError(t, c.Refresh(ctx, Params{"search": "x"}))
	assert.Equal(t, "case-1", seen.Get(ParamCaseID))
	assert.Equal(t, "x", seen.Get("search"))
}
