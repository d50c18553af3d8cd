package handlers

import (
	"fmt"
	"law_office_app_go/db"
	"law_office_app_go/models"
	"law_office_app_go/services"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

// Documents

type documentRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

func ListDocumentsHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	docs, err := services.ListDocuments(db.DB, caseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, docs)
}

func CreateDocumentHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req documentRequest
	if err := c.Bind(&req); err != nil || req.Name == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Document name is required")
	}
	doc, err := services.CreateDocument(db.DB, caseID, *req.Name)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "CaseDocument", doc.ID, doc.DocName, "Document added", nil, doc)
	return c.JSON(http.StatusCreated, doc)
}

// UpdateDocumentHandler renames a document, sets its status, or both
func UpdateDocumentHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req documentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == nil && req.Status == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Nothing to update")
	}

	docID := c.Param("docID")
	var doc *models.CaseDocument
	if req.Name != nil {
		if doc, err = services.RenameDocument(db.DB, caseID, docID, *req.Name); err != nil {
			return httpError(err)
		}
	}
	if req.Status != nil {
		if doc, err = services.UpdateDocumentStatus(db.DB, caseID, docID, *req.Status); err != nil {
			return httpError(err)
		}
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "CaseDocument", doc.ID, doc.DocName, "Document updated", nil, req)
	return c.JSON(http.StatusOK, doc)
}

func DeleteDocumentHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	docID := c.Param("docID")
	if err := services.DeleteDocument(db.DB, caseID, docID); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "CaseDocument", docID, "", "Document deleted", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Tasks

type taskRequest struct {
	Text     string `json:"text"`
	Urgency  string `json:"urgency"`
	Deadline string `json:"deadline"`
}

func (r taskRequest) input() (services.TaskInput, error) {
	deadline, err := services.ParseOptionalDate(r.Deadline)
	if err != nil {
		return services.TaskInput{}, err
	}
	return services.TaskInput{Text: r.Text, Urgency: r.Urgency, Deadline: deadline}, nil
}

func ListTasksHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	tasks, err := services.ListTasks(db.DB, caseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

func CreateTaskHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	in, err := req.input()
	if err != nil {
		return httpError(err)
	}
	task, err := services.CreateTask(db.DB, caseID, in)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "CaseTask", task.ID, task.Text, "Task added", nil, task)
	return c.JSON(http.StatusCreated, task)
}

func UpdateTaskHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	in, err := req.input()
	if err != nil {
		return httpError(err)
	}
	task, err := services.UpdateTask(db.DB, caseID, c.Param("taskID"), in)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "CaseTask", task.ID, task.Text, "Task updated", nil, task)
	return c.JSON(http.StatusOK, task)
}

func ToggleTaskHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	task, err := services.ToggleTask(db.DB, caseID, c.Param("taskID"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func DeleteTaskHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	taskID := c.Param("taskID")
	if err := services.DeleteTask(db.DB, caseID, taskID); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "CaseTask", taskID, "", "Task deleted", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Calls

type callRequest struct {
	Content  string `json:"content"`
	CallDate string `json:"call_date"`
}

func ListCallsHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	calls, err := services.ListCalls(db.DB, caseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, calls)
}

// CreateCallHandler logs a call; without call_date it is dated now
func CreateCallHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req callRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	when := now()
	if req.CallDate != "" {
		if when, err = services.ParseDate(req.CallDate); err != nil {
			return httpError(err)
		}
	}
	call, err := services.CreateCall(db.DB, caseID, req.Content, when)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "CaseCall", call.ID, "", "Call logged", nil, call)
	return c.JSON(http.StatusCreated, call)
}

func UpdateCallHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req callRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	call, err := services.UpdateCall(db.DB, caseID, c.Param("callID"), req.Content)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "CaseCall", call.ID, "", "Call updated", nil, call)
	return c.JSON(http.StatusOK, call)
}

func DeleteCallHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	callID := c.Param("callID")
	if err := services.DeleteCall(db.DB, caseID, callID); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "CaseCall", callID, "", "Call deleted", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Timeline

type eventRequest struct {
	EventType   string `json:"event_type"`
	EventDate   string `json:"event_date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsTemplate  bool   `json:"is_template"`
	IsPlan      bool   `json:"is_plan"`
}

func (r eventRequest) input() (services.EventInput, error) {
	in := services.EventInput{
		EventType:   r.EventType,
		Title:       r.Title,
		Description: r.Description,
		IsTemplate:  r.IsTemplate,
		IsPlan:      r.IsPlan,
	}
	if r.EventDate == "" {
		return in, nil
	}
	date, err := services.ParseDate(r.EventDate)
	if err != nil {
		return in, err
	}
	in.EventDate = date
	return in, nil
}

// ListEventsHandler returns the timeline; ?type narrows it to medical or legal
func ListEventsHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	events, err := services.ListEvents(db.DB, caseID, c.QueryParam("type"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, events)
}

func CreateEventHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	in, err := req.input()
	if err != nil {
		return httpError(err)
	}
	ev, err := services.CreateEvent(db.DB, caseID, in)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "TimelineEvent", ev.ID, ev.Title, "Timeline event added", nil, ev)
	return c.JSON(http.StatusCreated, ev)
}

func UpdateEventHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	in, err := req.input()
	if err != nil {
		return httpError(err)
	}
	ev, err := services.UpdateEvent(db.DB, caseID, c.Param("eventID"), in)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "TimelineEvent", ev.ID, ev.Title, "Timeline event updated", nil, ev)
	return c.JSON(http.StatusOK, ev)
}

func DeleteEventHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	eventID := c.Param("eventID")
	if err := services.DeleteEvent(c.Request().Context(), db.DB, services.Storage, caseID, eventID); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "TimelineEvent", eventID, "", "Timeline event deleted", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Event files

// UploadEventFileHandler stores a multipart "file" on a timeline event
func UploadEventFileHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "File is required")
	}
	if err := services.ValidateEventUpload(fh); err != nil {
		return httpError(err)
	}
	src, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to read upload")
	}
	defer src.Close()

	f, err := services.AttachFile(c.Request().Context(), db.DB, services.Storage, officeID(c), caseID, c.Param("eventID"), fh.Filename, src, fh.Size)
	if err != nil {
		log.Printf("[STORAGE] upload failed for case %s: %v", caseID, err)
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionCreate, "EventFile", f.ID, f.FileName, "File uploaded", nil, f)
	return c.JSON(http.StatusCreated, f)
}

// DownloadEventFileHandler streams a stored file back under its display name
func DownloadEventFileHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	f, err := services.GetEventFile(db.DB, caseID, c.Param("fileID"))
	if err != nil {
		return httpError(err)
	}
	rc, contentType, err := services.Storage.Open(c.Request().Context(), f.FilePath)
	if err != nil {
		return httpError(err)
	}
	defer rc.Close()

	if contentType == "" {
		contentType = f.MimeType
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDownload, "EventFile", f.ID, f.FileName, "File downloaded", nil, nil)

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(f.FileName)))
	c.Response().Header().Set("Last-Modified", f.CreatedAt.UTC().Format(time.RFC1123))
	return c.Stream(http.StatusOK, contentType, rc)
}

type renameRequest struct {
	Name string `json:"name"`
}

func RenameEventFileHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	f, err := services.RenameEventFile(db.DB, caseID, c.Param("fileID"), req.Name)
	if err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionUpdate, "EventFile", f.ID, req.Name, "File renamed", nil, req)
	return c.JSON(http.StatusOK, f)
}

func DeleteEventFileHandler(c echo.Context) error {
	caseID, err := requireCase(c)
	if err != nil {
		return err
	}
	fileID := c.Param("fileID")
	if err := services.DeleteEventFile(c.Request().Context(), db.DB, services.Storage, caseID, fileID); err != nil {
		return httpError(err)
	}
	services.LogAuditEvent(db.DB, auditCtx(c), models.AuditActionDelete, "EventFile", fileID, "", "File deleted", nil, nil)
	return c.NoContent(http.StatusNoContent)
}

// Messages

type messageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

func ListMessagesHandler(c echo.Context) error {
	msgs, err := chatService(db.DB).ListMessages(c.Request().Context(), officeID(c), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// SendMessageHandler appends to the case chat; the sender defaults to the lawyer side
func SendMessageHandler(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Sender == "" {
		req.Sender = models.SenderLawyer
	}
	msg, err := chatService(db.DB).SendMessage(c.Request().Context(), officeID(c), c.Param("id"), req.Sender, req.Message)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, msg)
}
