package handlers

import (
	"context"
	"errors"
	"law_office_app_go/middleware"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"law_office_app_go/services/chat"
	"law_office_app_go/services/navigation"
	"log"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

var (
	errForbidden   = errors.New("office admin role required")
	errInvalidStep = errors.New(`template steps are one "days | text" per line`)
	errRateLimited = errors.New("too many chat messages")
	// errReported means the user has already been shown the failure
	errReported = errors.New("failure already reported")
)

// liveAction handles one socket message. A nil error with touched data
// leaves the refresh to dispatch.
type liveAction func(ctx context.Context, s *liveSession, form liveForm) error

var liveActions = map[string]liveAction{
	"create_case":         actionCreateCase,
	"update_case_status":  actionUpdateCaseStatus,
	"add_lawyer":          actionAddLawyer,
	"delete_lawyer":       actionDeleteLawyer,
	"add_case_type":       actionAddCaseType,
	"delete_case_type":    actionDeleteCaseType,
	"create_template":     actionCreateTemplate,
	"update_template":     actionUpdateTemplate,
	"delete_template":     actionDeleteTemplate,
	"apply_template":      caseAction(actionApplyTemplate),
	"add_task":            caseAction(actionAddTask),
	"toggle_task":         caseAction(actionToggleTask),
	"delete_task":         caseAction(actionDeleteTask),
	"add_call":            caseAction(actionAddCall),
	"add_document":        caseAction(actionAddDocument),
	"set_document_status": caseAction(actionSetDocumentStatus),
	"add_event":           caseAction(actionAddEvent),
	"delete_event":        caseAction(actionDeleteEvent),
	"update_office":       adminAction(actionUpdateOffice),
	"add_member":          adminAction(actionAddMember),
	"remove_member":       adminAction(actionRemoveMember),
}

// dispatch runs one action. Navigation renders by itself; any other action
// that changed data re-renders the current view once afterwards.
func (s *liveSession) dispatch(ctx context.Context, form liveForm) {
	name := form.Get("action")
	s.dirty.Store(false)

	var err error
	switch name {
	case "navigate":
		err = s.nav.NavigateTo(ctx, form.Get("view"), filterParams(form))
		s.dirty.Store(false)
	case "open_case":
		err = s.nav.OpenCase(ctx, form.Get(navigation.ParamCaseID))
		s.dirty.Store(false)
	case "back":
		err = s.nav.BackToCases(ctx)
		s.dirty.Store(false)
	case "chat_open":
		s.chat.OpenChat(ctx, form.Get(navigation.ParamCaseID))
	case "chat_send":
		err = s.sendChat(ctx, form.Get("message"))
	case "chat_toggle":
		s.chat.ToggleChat()
	case "chat_close":
		s.chat.CloseChat()
	default:
		handle, ok := liveActions[name]
		if !ok {
			log.Printf("[NAV] unknown live action %q from user %s", name, s.user.ID)
			return
		}
		err = handle(ctx, s, form)
	}

	if err != nil {
		if !errors.Is(err, errConnClosed) && !errors.Is(err, errReported) {
			log.Printf("event=live_session action=%s status=failed user_id=%s error=%v", name, s.user.ID, err)
			s.alert(s.actionErrorKey(err))
		}
		return
	}

	if s.dirty.Load() {
		if err := s.nav.Refresh(ctx, filterParams(form)); err != nil {
			log.Printf("[NAV] refresh after %s failed: %v", name, err)
		}
	}
}

func (s *liveSession) actionErrorKey(err error) string {
	switch {
	case errors.Is(err, errForbidden):
		return "errors.forbidden"
	case errors.Is(err, errRateLimited):
		return "errors.rate_limited"
	case errors.Is(err, errInvalidStep):
		return "errors.required"
	}
	return errorKey(err)
}

// sendChat posts as the lawyer through the chat session. Blank input is ignored.
func (s *liveSession) sendChat(ctx context.Context, text string) error {
	if !middleware.ChatSendLimiter.Allow(s.user.ID) {
		return errRateLimited
	}
	err := s.chat.SendMessage(ctx, text)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return nil
	case errors.Is(err, chat.ErrNoCase):
		log.Printf("[CHAT] send ignored: no open conversation for user %s", s.user.ID)
		return nil
	case err != nil:
		return errReported
	}
	return nil
}

// touch marks data changed outside the state container
func (s *liveSession) touch() {
	s.dirty.Store(true)
}

// caseAction checks that the case belongs to the tab's office before running fn
func caseAction(fn func(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error) liveAction {
	return func(ctx context.Context, s *liveSession, form liveForm) error {
		caseID := form.Get(navigation.ParamCaseID)
		gdb := s.db.WithContext(ctx)
		if err := services.CaseBelongsToOffice(gdb, s.office.ID, caseID); err != nil {
			return err
		}
		if err := fn(ctx, s, gdb, caseID, form); err != nil {
			return err
		}
		s.touch()
		return nil
	}
}

func adminAction(fn liveAction) liveAction {
	return func(ctx context.Context, s *liveSession, form liveForm) error {
		if !s.isAdmin() {
			services.LogSecurityEvent(s.db, "FORBIDDEN_ACTION", s.user.ID, "live action requires admin")
			return errForbidden
		}
		if err := fn(ctx, s, form); err != nil {
			return err
		}
		s.touch()
		return nil
	}
}

func (s *liveSession) audit() services.AuditContext {
	return services.AuditContext{
		UserID:     s.user.ID,
		UserName:   s.user.Name,
		UserRole:   s.user.Role,
		OfficeID:   s.office.ID,
		OfficeName: s.office.Name,
	}
}

func actionCreateCase(ctx context.Context, s *liveSession, form liveForm) error {
	openDate, err := services.ParseOptionalDate(form.Get("open_date"))
	if err != nil {
		return err
	}
	in := services.CaseInput{
		CaseNum:     form.Get("case_num"),
		FirstName:   form.Get("first_name"),
		LastName:    form.Get("last_name"),
		NationalID:  form.Get("tz"),
		Phone:       form.Get("phone"),
		HMO:         form.Get("hmo"),
		Street:      form.Get("street"),
		City:        form.Get("city"),
		CourtFileNo: form.Get("ta_num"),
		CaseTypeID:  form.Get("case_type_id"),
		OpenDate:    openDate,
		LawyerIDs:   form.List("lawyer_ids"),
	}
	c, err := s.state.CreateCase(ctx, in)
	if err != nil {
		return err
	}
	services.LogAuditEvent(s.db, s.audit(), models.AuditActionCreate, "Case", c.ID, c.CaseNum, "Case opened", nil, c)
	return nil
}

func actionUpdateCaseStatus(ctx context.Context, s *liveSession, form liveForm) error {
	caseID, status := form.Get(navigation.ParamCaseID), form.Get("status")
	if err := s.state.UpdateCase(ctx, caseID, services.CaseUpdate{Status: &status}); err != nil {
		return err
	}
	services.LogAuditEvent(s.db, s.audit(), models.AuditActionUpdate, "Case", caseID, "", "Case status changed", nil, map[string]string{"status": status})
	return nil
}

func actionAddLawyer(ctx context.Context, s *liveSession, form liveForm) error {
	return s.state.AddLawyer(ctx, form.Get("name"))
}

func actionDeleteLawyer(ctx context.Context, s *liveSession, form liveForm) error {
	return s.state.DeleteLawyer(ctx, form.Get("id"))
}

func actionAddCaseType(ctx context.Context, s *liveSession, form liveForm) error {
	return s.state.AddCaseType(ctx, form.Get("name"))
}

func actionDeleteCaseType(ctx context.Context, s *liveSession, form liveForm) error {
	return s.state.DeleteCaseType(ctx, form.Get("id"))
}

func actionCreateTemplate(ctx context.Context, s *liveSession, form liveForm) error {
	steps, err := parseSteps(form.Get("steps"))
	if err != nil {
		return err
	}
	return s.state.CreateTemplate(ctx, form.Get("name"), steps)
}

func actionUpdateTemplate(ctx context.Context, s *liveSession, form liveForm) error {
	steps, err := parseSteps(form.Get("steps"))
	if err != nil {
		return err
	}
	return s.state.UpdateTemplate(ctx, form.Get("id"), form.Get("name"), steps)
}

func actionDeleteTemplate(ctx context.Context, s *liveSession, form liveForm) error {
	return s.state.DeleteTemplate(ctx, form.Get("id"))
}

// parseSteps reads one "days | text" step per line. A line without a bar is a day-zero step.
func parseSteps(raw string) ([]services.StepInput, error) {
	var steps []services.StepInput
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		days, text := 0, line
		if before, after, found := strings.Cut(line, "|"); found {
			n, err := strconv.Atoi(strings.TrimSpace(before))
			if err != nil || n < 0 {
				return nil, errInvalidStep
			}
			days, text = n, strings.TrimSpace(after)
		}
		if text == "" {
			return nil, errInvalidStep
		}
		steps = append(steps, services.StepInput{Text: text, Days: days})
	}
	return steps, nil
}

func actionApplyTemplate(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	events, err := services.ApplyTemplate(gdb, s.office.ID, form.Get("template_id"), caseID)
	if err != nil {
		return err
	}
	log.Printf("[INFO] template applied to case %s: %d planned events", caseID, len(events))
	return nil
}

func actionAddTask(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	deadline, err := services.ParseOptionalDate(form.Get("deadline"))
	if err != nil {
		return err
	}
	_, err = services.CreateTask(gdb, caseID, services.TaskInput{
		Text:     form.Get("text"),
		Urgency:  form.Get("urgency"),
		Deadline: deadline,
	})
	return err
}

func actionToggleTask(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	_, err := services.ToggleTask(gdb, caseID, form.Get("id"))
	return err
}

func actionDeleteTask(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	return services.DeleteTask(gdb, caseID, form.Get("id"))
}

func actionAddCall(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	_, err := services.CreateCall(gdb, caseID, form.Get("content"), now())
	return err
}

func actionAddDocument(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	_, err := services.CreateDocument(gdb, caseID, form.Get("name"))
	return err
}

func actionSetDocumentStatus(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	_, err := services.UpdateDocumentStatus(gdb, caseID, form.Get("id"), form.Get("status"))
	return err
}

func actionAddEvent(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	date, err := services.ParseDate(form.Get("event_date"))
	if err != nil {
		return err
	}
	_, err = services.CreateEvent(gdb, caseID, services.EventInput{
		EventType:   form.Get("event_type"),
		EventDate:   date,
		Title:       form.Get("title"),
		Description: form.Get("description"),
	})
	return err
}

func actionDeleteEvent(ctx context.Context, s *liveSession, gdb *gorm.DB, caseID string, form liveForm) error {
	return services.DeleteEvent(ctx, gdb, services.Storage, caseID, form.Get("id"))
}

func actionUpdateOffice(ctx context.Context, s *liveSession, form liveForm) error {
	name, address, phone, email := form.Get("name"), form.Get("address"), form.Get("phone"), form.Get("email")
	office, err := services.UpdateOffice(s.db.WithContext(ctx), s.office.ID, services.OfficeUpdate{
		Name:    &name,
		Address: &address,
		Phone:   &phone,
		Email:   &email,
	})
	if err != nil {
		return err
	}
	s.office.Name = office.Name
	services.LogAuditEvent(s.db, s.audit(), models.AuditActionUpdate, "Office", office.ID, office.Name, "Office details updated", nil, office)
	return nil
}

func actionAddMember(ctx context.Context, s *liveSession, form liveForm) error {
	in := services.NewMemberInput{Name: form.Get("name"), Email: form.Get("email"), Password: form.Get("password")}
	lawyer, _, err := services.AddLawyerToOffice(s.db.WithContext(ctx), s.office.ID, in)
	if err != nil {
		return err
	}
	services.LogAuditEvent(s.db, s.audit(), models.AuditActionCreate, "Lawyer", lawyer.ID, lawyer.Name, "Lawyer added to office", nil, lawyer)
	sendLawyerAddedEmail(s.cfg, lawyer, s.office.Name, in.Password, s.lang)
	return s.state.LoadInitialData(ctx)
}

func actionRemoveMember(ctx context.Context, s *liveSession, form liveForm) error {
	lawyerID := form.Get("id")
	if err := services.RemoveLawyerFromOffice(s.db.WithContext(ctx), s.office.ID, lawyerID); err != nil {
		return err
	}
	services.LogAuditEvent(s.db, s.audit(), models.AuditActionDelete, "OfficeMember", lawyerID, "", "Lawyer removed from office", nil, nil)
	return nil
}
