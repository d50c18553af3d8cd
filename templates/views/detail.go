package views

import (
	"strconv"
	"time"

	"law_office_app_go/models"

	"github.com/a-h/templ"
)

const detailCallLimit = 5

// DetailData feeds the case screen
type DetailData struct {
	Case      *models.Case
	Templates []models.Template
	Now       time.Time
}

// CaseDetail shows one case with its timelines, tasks, calls and documents
func CaseDetail(d DetailData) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="detail">`)
		p.raw(`<button type="button" class="back"`, action("back"), `>`)
		p.t("common.back")
		p.raw(`</button>`)
		if d.Case == nil {
			p.render(ErrorPlaceholder("detail.load_error"))
			p.raw(`</section>`)
			return
		}
		c := d.Case

		detailHeader(p, c)
		p.raw(`<div class="columns"><div class="column">`)
		timeline(p, c, models.EventTypeMedical)
		timeline(p, c, models.EventTypeLegal)
		templatePicker(p, c, d.Templates)
		p.raw(`</div><div class="column">`)
		clientInfo(p, c)
		taskList(p, c)
		callList(p, c)
		documentList(p, c, d.Now)
		p.raw(`</div></div></section>`)
	})
}

func detailHeader(p *page, c *models.Case) {
	p.raw(`<header class="detail-header"><h1>`)
	p.text(c.ClientName())
	p.raw(` <small>#`)
	p.text(c.CaseNum)
	p.raw(`</small></h1>`)

	p.raw(`<form class="inline-form" ws-send hx-trigger="change">`)
	p.raw(`<input type="hidden" name="action" value="update_case_status"><input type="hidden" name="case_id"`, attr("value", c.ID), `>`)
	p.raw(`<select name="status"`, attr("class", statusClass(c.Status)), `>`)
	for _, s := range []string{models.CaseStatusOpen, models.CaseStatusProcess, models.CaseStatusClosed} {
		p.raw(`<option`, attr("value", s))
		if s == c.Status {
			p.raw(` selected`)
		}
		p.raw(`>`)
		p.t("status." + s)
		p.raw(`</option>`)
	}
	p.raw(`</select></form>`)

	p.raw(`<a class="button" target="_blank"`, attr("href", "/api/cases/"+c.ID+"/booklet.pdf"), `>`)
	p.t("detail.booklet")
	p.raw(`</a>`)
	p.raw(`<button type="button"`, action("chat_open", "case_id", c.ID), `>`)
	p.t("detail.open_chat")
	p.raw(`</button></header>`)
}

func infoRow(p *page, labelKey, value string) {
	if value == "" {
		return
	}
	p.raw(`<dt>`)
	p.t(labelKey)
	p.raw(`</dt><dd>`)
	p.text(value)
	p.raw(`</dd>`)
}

func clientInfo(p *page, c *models.Case) {
	p.raw(`<div class="panel"><h2>`)
	p.t("detail.client")
	p.raw(`</h2><dl>`)
	infoRow(p, "case.national_id", c.NationalID)
	infoRow(p, "case.phone", c.Phone)
	infoRow(p, "case.hmo", c.HMO)
	address := c.Street
	if c.City != "" {
		if address != "" {
			address += ", "
		}
		address += c.City
	}
	infoRow(p, "case.address", address)
	infoRow(p, "case.court_file", c.CourtFileNo)
	if c.CaseType != nil {
		infoRow(p, "case.type", c.CaseType.Name)
	}
	infoRow(p, "case.lawyers", c.LawyerNames())
	infoRow(p, "case.open_date", formatDate(c.OpenDate))
	p.raw(`</dl></div>`)
}

func timeline(p *page, c *models.Case, eventType string) {
	p.raw(`<div`, attr("class", "panel timeline timeline-"+eventType), `><h2>`)
	p.t("timeline." + eventType)
	p.raw(`</h2>`)

	count := 0
	p.raw(`<ol class="events">`)
	for _, ev := range c.TimelineEvents {
		if ev.EventType != eventType {
			continue
		}
		count++
		class := "event"
		if ev.IsPlan {
			class += " plan"
		}
		p.raw(`<li`, attr("class", class), `><time>`)
		p.text(formatDate(ev.EventDate))
		p.raw(`</time> <strong>`)
		p.text(ev.Title)
		p.raw(`</strong>`)
		if ev.Description != "" {
			// sanitized on write
			p.raw(`<div class="description">`, ev.Description, `</div>`)
		}
		if len(ev.Files) > 0 {
			p.raw(`<ul class="files">`)
			for _, f := range ev.Files {
				p.raw(`<li><a`, attr("href", "/api/cases/"+c.ID+"/timeline/files/"+f.ID), `>`)
				p.text(f.FileName)
				p.raw(`</a> <span class="muted">`)
				p.text(formatFileSize(f.FileSize))
				p.raw(`</span></li>`)
			}
			p.raw(`</ul>`)
		}
		p.raw(`<form class="upload" hx-encoding="multipart/form-data" hx-swap="none"`,
			attr("hx-post", "/api/cases/"+c.ID+"/timeline/"+ev.ID+"/files"),
			` hx-on::after-request="this.reset()"><input type="file" name="file" required><button type="submit">`)
		p.t("timeline.attach")
		p.raw(`</button></form>`)
		p.raw(`<button type="button" class="danger"`, action("delete_event", "case_id", c.ID, "id", ev.ID), attr("hx-confirm", p.tr("common.confirm_delete")), `>`)
		p.t("common.delete")
		p.raw(`</button></li>`)
	}
	p.raw(`</ol>`)
	if count == 0 {
		p.render(EmptyPlaceholder("timeline.empty"))
	}

	p.raw(`<details><summary>`)
	p.t("timeline.add")
	p.raw(`</summary><form class="form" ws-send>`)
	p.raw(`<input type="hidden" name="action" value="add_event">`)
	p.raw(`<input type="hidden" name="case_id"`, attr("value", c.ID), `>`)
	p.raw(`<input type="hidden" name="event_type"`, attr("value", eventType), `>`)
	p.raw(`<label>`)
	p.t("timeline.date")
	p.raw(`<input type="date" name="event_date" required></label>`)
	textInput(p, "title", "timeline.title", "", true)
	p.raw(`<label>`)
	p.t("timeline.description")
	p.raw(`<textarea name="description" rows="3"></textarea></label><button type="submit">`)
	p.t("common.save")
	p.raw(`</button></form></details></div>`)
}

func templatePicker(p *page, c *models.Case, templates []models.Template) {
	if len(templates) == 0 {
		return
	}
	p.raw(`<form class="inline-form" ws-send><input type="hidden" name="action" value="apply_template">`)
	p.raw(`<input type="hidden" name="case_id"`, attr("value", c.ID), `><select name="template_id">`)
	for _, tpl := range templates {
		p.raw(`<option`, attr("value", tpl.ID), `>`)
		p.text(tpl.Name)
		p.raw(`</option>`)
	}
	p.raw(`</select><button type="submit">`)
	p.t("detail.apply_template")
	p.raw(`</button></form>`)
}

func taskList(p *page, c *models.Case) {
	p.raw(`<div class="panel"><h2>`)
	p.t("detail.tasks")
	p.raw(` <span class="badge">`)
	p.text(strconv.Itoa(c.OpenTaskCount()))
	p.raw(`</span></h2><ul class="task-list">`)
	for _, t := range c.Tasks {
		class := urgencyClass(t.Urgency)
		if t.Done {
			class += " done"
		}
		p.raw(`<li`, attr("class", class), `><input type="checkbox"`, action("toggle_task", "case_id", c.ID, "id", t.ID))
		if t.Done {
			p.raw(` checked`)
		}
		p.raw(`> `)
		p.text(t.Text)
		if t.Deadline != nil {
			p.raw(` <span class="date">`)
			p.text(formatDatePtr(t.Deadline))
			p.raw(`</span>`)
		}
		p.raw(`<button type="button" class="danger"`, action("delete_task", "case_id", c.ID, "id", t.ID), `>&times;</button></li>`)
	}
	p.raw(`</ul><form class="inline-form" ws-send><input type="hidden" name="action" value="add_task">`)
	p.raw(`<input type="hidden" name="case_id"`, attr("value", c.ID), `>`)
	p.raw(`<input type="text" name="text" required`, attr("placeholder", p.tr("detail.new_task")), `>`)
	p.raw(`<select name="urgency">`)
	for _, u := range []string{models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh} {
		p.raw(`<option`, attr("value", u), `>`)
		p.t("urgency." + u)
		p.raw(`</option>`)
	}
	p.raw(`</select><input type="date" name="deadline"><button type="submit">`)
	p.t("common.add")
	p.raw(`</button></form></div>`)
}

func callList(p *page, c *models.Case) {
	p.raw(`<div class="panel"><h2>`)
	p.t("detail.calls")
	p.raw(`</h2><ul class="calls">`)
	for i, call := range c.Calls {
		if i == detailCallLimit {
			break
		}
		p.raw(`<li><time>`)
		p.text(call.CallDate.Format("02/01/2006 15:04"))
		p.raw(`</time> `)
		p.text(call.Content)
		p.raw(`</li>`)
	}
	p.raw(`</ul><form class="inline-form" ws-send><input type="hidden" name="action" value="add_call">`)
	p.raw(`<input type="hidden" name="case_id"`, attr("value", c.ID), `>`)
	p.raw(`<input type="text" name="content" required`, attr("placeholder", p.tr("detail.new_call")), `><button type="submit">`)
	p.t("common.add")
	p.raw(`</button></form></div>`)
}

var documentStatuses = []string{models.DocumentStatusNone, models.DocumentStatusSent, models.DocumentStatusSigned}

func documentList(p *page, c *models.Case, now time.Time) {
	p.raw(`<div class="panel"><h2>`)
	p.t("detail.documents")
	p.raw(`</h2>`)
	if c.DocsDeadline != nil {
		class := "muted"
		if c.DocumentsOverdue(now) {
			class = "badge badge-danger"
		}
		p.raw(`<p`, attr("class", class), `>`)
		p.t("detail.docs_deadline")
		p.raw(` `)
		p.text(formatDatePtr(c.DocsDeadline))
		p.raw(`</p>`)
	}
	p.raw(`<ul class="documents">`)
	for _, doc := range c.Documents {
		p.raw(`<li><span>`)
		p.text(doc.DocName)
		p.raw(`</span><form class="inline-form" ws-send hx-trigger="change">`)
		p.raw(`<input type="hidden" name="action" value="set_document_status">`)
		p.raw(`<input type="hidden" name="case_id"`, attr("value", c.ID), `><input type="hidden" name="id"`, attr("value", doc.ID), `>`)
		p.raw(`<select name="status"`, attr("class", "doc-status doc-"+doc.Status), `>`)
		for _, s := range documentStatuses {
			p.raw(`<option`, attr("value", s))
			if s == doc.Status {
				p.raw(` selected`)
			}
			p.raw(`>`)
			p.t("document." + s)
			p.raw(`</option>`)
		}
		p.raw(`</select></form></li>`)
	}
	p.raw(`</ul><form class="inline-form" ws-send><input type="hidden" name="action" value="add_document">`)
	p.raw(`<input type="hidden" name="case_id"`, attr("value", c.ID), `>`)
	p.raw(`<input type="text" name="name" required`, attr("placeholder", p.tr("detail.new_document")), `><button type="submit">`)
	p.t("common.add")
	p.raw(`</button></form></div>`)
}
