package handlers

import (
	"context"
	"law_office_app_go/services"
	"law_office_app_go/services/navigation"
	"law_office_app_go/templates/views"
	"log"

	"github.com/a-h/templ"
)

// Navigation params carried by the cases screen filters. The status filter
// is not named "status" so it never collides with the status selects of
// the detail screen.
const (
	paramSearch = views.FilterSearchField
	paramStatus = views.FilterStatusField
)

// filterParams reads the filters the client sent along with an action
func filterParams(form liveForm) navigation.Params {
	return navigation.Params{
		paramSearch: form.Get(paramSearch),
		paramStatus: form.Get(paramStatus),
	}
}

// registerViews binds every screen to the data it reads. Reads never go
// through a cache: the lists come from the tab's state container, which
// is reloaded after each write, and the rest is queried on render.
func registerViews(s *liveSession) {
	s.nav.Register(navigation.ViewDashboard, s.dashboardView)
	s.nav.Register(navigation.ViewCases, s.casesView)
	s.nav.Register(navigation.ViewTasks, s.tasksView)
	s.nav.Register(navigation.ViewMessages, s.messagesView)
	s.nav.Register(navigation.ViewMgmt, s.mgmtView)
	s.nav.Register(navigation.ViewOffice, s.officeView)
	s.nav.Register(navigation.ViewDetail, s.detailView)
}

func (s *liveSession) dashboardView(ctx context.Context, _ navigation.Params) templ.Component {
	stats, err := services.LoadDashboard(s.db.WithContext(ctx), s.office.ID, now())
	if err != nil {
		log.Printf("[NAV] dashboard load failed for office %s: %v", s.office.ID, err)
		return views.ErrorPlaceholder("common.load_error")
	}
	return views.Dashboard(stats, now())
}

func (s *liveSession) casesView(ctx context.Context, params navigation.Params) templ.Component {
	search, status := params.Get(paramSearch), params.Get(paramStatus)
	next, err := services.NextCaseNumber(s.db.WithContext(ctx), s.office.ID)
	if err != nil {
		log.Printf("[NAV] next case number failed for office %s: %v", s.office.ID, err)
	}
	return views.Cases(views.CasesData{
		Cases:      services.FilterCases(s.state.Cases(), search, status, now()),
		Search:     search,
		Status:     status,
		Lawyers:    s.state.Lawyers(),
		CaseTypes:  s.state.CaseTypes(),
		NextNumber: next,
		Now:        now(),
	})
}

func (s *liveSession) tasksView(ctx context.Context, _ navigation.Params) templ.Component {
	return views.TaskBoard(services.BuildTaskBoard(s.state.Cases(), now()))
}

func (s *liveSession) messagesView(ctx context.Context, _ navigation.Params) templ.Component {
	convs, err := services.ListConversations(s.db.WithContext(ctx), s.office.ID)
	if err != nil {
		log.Printf("[NAV] conversations load failed for office %s: %v", s.office.ID, err)
		return views.ErrorPlaceholder("common.load_error")
	}
	return views.Messages(convs, now())
}

func (s *liveSession) mgmtView(ctx context.Context, _ navigation.Params) templ.Component {
	return views.Management(views.ManagementData{
		Lawyers:   s.state.Lawyers(),
		CaseTypes: s.state.CaseTypes(),
		Templates: s.state.Templates(),
	})
}

func (s *liveSession) officeView(ctx context.Context, _ navigation.Params) templ.Component {
	if !s.isAdmin() {
		return views.ErrorPlaceholder("errors.forbidden")
	}
	gdb := s.db.WithContext(ctx)
	office, err := services.GetOffice(gdb, s.office.ID)
	if err != nil {
		log.Printf("[NAV] office load failed for office %s: %v", s.office.ID, err)
		return views.Office(views.OfficeData{})
	}
	members, err := services.ListMembers(gdb, s.office.ID)
	if err != nil {
		log.Printf("[NAV] members load failed for office %s: %v", s.office.ID, err)
	}
	return views.Office(views.OfficeData{Office: office, Members: members})
}

// detailView makes the case current before drawing it; a failed load draws the error state
func (s *liveSession) detailView(ctx context.Context, params navigation.Params) templ.Component {
	caseID := params.Get(navigation.ParamCaseID)
	d := views.DetailData{Templates: s.state.Templates(), Now: now()}
	if caseID != "" && s.state.LoadCaseByID(ctx, caseID) == nil {
		if c := s.state.CurrentCase(); c != nil && c.ID == caseID {
			d.Case = c
		}
	}
	return views.CaseDetail(d)
}
