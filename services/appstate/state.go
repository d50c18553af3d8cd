// Package appstate holds the per-session snapshot of an office's data and
// tells registered listeners whenever it changes.
package appstate

import (
	"context"
	"log"
	"sync"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"golang.org/x/sync/errgroup"
)

// DefaultView is shown before any navigation happens
const DefaultView = "cases"

// Backend is the data access the state container writes through
type Backend interface {
	ListCases(ctx context.Context) ([]models.Case, error)
	GetCase(ctx context.Context, id string) (*models.Case, error)
	CreateCase(ctx context.Context, in services.CaseInput) (*models.Case, error)
	UpdateCase(ctx context.Context, id string, upd services.CaseUpdate) (*models.Case, error)

	ListLawyers(ctx context.Context) ([]models.Lawyer, error)
	CreateLawyer(ctx context.Context, name string) (*models.Lawyer, error)
	DeactivateLawyer(ctx context.Context, id string) error

	ListCaseTypes(ctx context.Context) ([]models.CaseType, error)
	CreateCaseType(ctx context.Context, name string) (*models.CaseType, error)
	DeactivateCaseType(ctx context.Context, id string) error

	ListTemplates(ctx context.Context) ([]models.Template, error)
	CreateTemplate(ctx context.Context, name string, steps []services.StepInput) (*models.Template, error)
	UpdateTemplate(ctx context.Context, id, name string, steps []services.StepInput) (*models.Template, error)
	DeactivateTemplate(ctx context.Context, id string) error
}

// Listener is called with no payload after every change
type Listener func()

// State is the application state container of one live session
type State struct {
	backend Backend

	mu          sync.RWMutex
	cases       []models.Case
	lawyers     []models.Lawyer
	caseTypes   []models.CaseType
	templates   []models.Template
	currentCase *models.Case
	currentView string
	listeners   []Listener
}

func New(backend Backend) *State {
	return &State{backend: backend, currentView: DefaultView}
}

// Subscribe appends a listener. Listeners run in registration order.
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *State) notify() {
	s.mu.RLock()
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l()
	}
}

func (s *State) Cases() []models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Case(nil), s.cases...)
}

func (s *State) Lawyers() []models.Lawyer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Lawyer(nil), s.lawyers...)
}

func (s *State) CaseTypes() []models.CaseType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CaseType(nil), s.caseTypes...)
}

func (s *State) Templates() []models.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Template(nil), s.templates...)
}

// CurrentCase is nil until LoadCaseByID succeeds
func (s *State) CurrentCase() *models.Case {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentCase
}

func (s *State) CurrentView() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentView
}

// LoadInitialData fetches lawyers, case types and templates together, then the cases
func (s *State) LoadInitialData(ctx context.Context) error {
	var (
		lawyers   []models.Lawyer
		caseTypes []models.CaseType
		templates []models.Template
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		lawyers, err = s.backend.ListLawyers(gctx)
		return err
	})
	g.Go(func() (err error) {
		caseTypes, err = s.backend.ListCaseTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		templates, err = s.backend.ListTemplates(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Printf("[STATE] failed to load initial data: %v", err)
		return err
	}

	s.mu.Lock()
	s.lawyers = lawyers
	s.caseTypes = caseTypes
	s.templates = templates
	s.mu.Unlock()

	return s.LoadCases(ctx)
}

// LoadCases replaces the case list and notifies
func (s *State) LoadCases(ctx context.Context) error {
	cases, err := s.backend.ListCases(ctx)
	if err != nil {
		log.Printf("[STATE] failed to load cases: %v", err)
		return err
	}
	s.mu.Lock()
	s.cases = cases
	s.mu.Unlock()
	s.notify()
	return nil
}

// LoadCaseByID makes the case current and notifies
func (s *State) LoadCaseByID(ctx context.Context, id string) error {
	c, err := s.backend.GetCase(ctx, id)
	if err != nil {
		log.Printf("[STATE] failed to load case %s: %v", id, err)
		return err
	}
	s.mu.Lock()
	s.currentCase = c
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) SetCurrentView(view string) {
	s.mu.Lock()
	s.currentView = view
	s.mu.Unlock()
	s.notify()
}

// CreateCase writes through and reloads the case list
func (s *State) CreateCase(ctx context.Context, in services.CaseInput) (*models.Case, error) {
	c, err := s.backend.CreateCase(ctx, in)
	if err != nil {
		log.Printf("[STATE] failed to create case: %v", err)
		return nil, err
	}
	if err := s.LoadCases(ctx); err != nil {
		return c, err
	}
	return c, nil
}

// UpdateCase writes through, reloads the list and, when it is the current case, the case itself
func (s *State) UpdateCase(ctx context.Context, id string, upd services.CaseUpdate) error {
	if _, err := s.backend.UpdateCase(ctx, id, upd); err != nil {
		log.Printf("[STATE] failed to update case %s: %v", id, err)
		return err
	}
	if err := s.LoadCases(ctx); err != nil {
		return err
	}
	if cur := s.CurrentCase(); cur != nil && cur.ID == id {
		return s.LoadCaseByID(ctx, id)
	}
	return nil
}

func (s *State) reloadLawyers(ctx context.Context) error {
	lawyers, err := s.backend.ListLawyers(ctx)
	if err != nil {
		log.Printf("[STATE] failed to reload lawyers: %v", err)
		return err
	}
	s.mu.Lock()
	s.lawyers = lawyers
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) AddLawyer(ctx context.Context, name string) error {
	if _, err := s.backend.CreateLawyer(ctx, name); err != nil {
		log.Printf("[STATE] failed to add lawyer: %v", err)
		return err
	}
	return s.reloadLawyers(ctx)
}

func (s *State) DeleteLawyer(ctx context.Context, id string) error {
	if err := s.backend.DeactivateLawyer(ctx, id); err != nil {
		log.Printf("[STATE] failed to delete lawyer %s: %v", id, err)
		return err
	}
	return s.reloadLawyers(ctx)
}

func (s *State) reloadCaseTypes(ctx context.Context) error {
	types, err := s.backend.ListCaseTypes(ctx)
	if err != nil {
		log.Printf("[STATE] failed to reload case types: %v", err)
		return err
	}
	s.mu.Lock()
	s.caseTypes = types
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) AddCaseType(ctx context.Context, name string) error {
	if _, err := s.backend.CreateCaseType(ctx, name); err != nil {
		log.Printf("[STATE] failed to add case type: %v", err)
		return err
	}
	return s.reloadCaseTypes(ctx)
}

func (s *State) DeleteCaseType(ctx context.Context, id string) error {
	if err := s.backend.DeactivateCaseType(ctx, id); err != nil {
		log.Printf("[STATE] failed to delete case type %s: %v", id, err)
		return err
	}
	return s.reloadCaseTypes(ctx)
}

func (s *State) reloadTemplates(ctx context.Context) error {
	templates, err := s.backend.ListTemplates(ctx)
	if err != nil {
		log.Printf("[STATE] failed to reload templates: %v", err)
		return err
	}
	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *State) CreateTemplate(ctx context.Context, name string, steps []services.StepInput) error {
	if _, err := s.backend.CreateTemplate(ctx, name, steps); err != nil {
		log.Printf("[STATE] failed to create template: %v", err)
		return err
	}
	return s.reloadTemplates(ctx)
}

func (s *State) UpdateTemplate(ctx context.Context, id, name string, steps []services.StepInput) error {
	if _, err := s.backend.UpdateTemplate(ctx, id, name, steps); err != nil {
		log.Printf("[STATE] failed to update template %s: %v", id, err)
		return err
	}
	return s.reloadTemplates(ctx)
}

func (s *State) DeleteTemplate(ctx context.Context, id string) error {
	if err := s.backend.DeactivateTemplate(ctx, id); err != nil {
		log.Printf("[STATE] failed to delete template %s: %v", id, err)
		return err
	}
	return s.reloadTemplates(ctx)
}
