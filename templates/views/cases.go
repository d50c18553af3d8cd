package views

import (
	"strconv"
	"time"

	"law_office_app_go/models"

	"github.com/a-h/templ"
)

// CaseFilters are the status filter choices of the case list
var CaseFilters = []string{"all", models.CaseStatusOpen, models.CaseStatusProcess, models.CaseStatusClosed, "overdue"}

// CasesData feeds the case list
type CasesData struct {
	Cases      []models.Case
	Search     string
	Status     string
	Lawyers    []models.Lawyer
	CaseTypes  []models.CaseType
	NextNumber string
	Now        time.Time
}

func filterLabelKey(f string) string {
	switch f {
	case "all":
		return "cases.filter_all"
	case "overdue":
		return "cases.filter_overdue"
	}
	return "status." + f
}

// Field names of the case list filters
const (
	FilterSearchField = "search"
	FilterStatusField = "filter"
)

var filterInclude = "[name='" + FilterSearchField + "'],[name='" + FilterStatusField + "']"

// Cases is the searchable case list with the new case form
func Cases(d CasesData) templ.Component {
	return component(func(p *page) {
		// every action sent from this screen carries the current filters
		p.raw(`<section class="cases"`, attr("hx-include", filterInclude), `><div class="toolbar"><h1>`)
		p.t("cases.title")
		p.raw(`</h1>`)

		p.raw(`<form class="filters" ws-send hx-trigger="input changed delay:300ms, change, submit">`)
		p.raw(`<input type="hidden" name="action" value="navigate"><input type="hidden" name="view" value="cases">`)
		p.raw(`<input type="search"`, attr("name", FilterSearchField), attr("value", d.Search), attr("placeholder", p.tr("cases.search")), `>`)
		p.raw(`<select`, attr("name", FilterStatusField), `>`)
		for _, f := range CaseFilters {
			p.raw(`<option`, attr("value", f))
			if f == d.Status || (d.Status == "" && f == "all") {
				p.raw(` selected`)
			}
			p.raw(`>`)
			p.t(filterLabelKey(f))
			p.raw(`</option>`)
		}
		p.raw(`</select></form></div>`)

		if len(d.Cases) == 0 {
			p.render(EmptyPlaceholder("cases.empty"))
		} else {
			p.raw(`<table class="case-table"><thead><tr>`)
			for _, key := range []string{"cases.col_num", "cases.col_client", "cases.col_type", "cases.col_lawyers", "cases.col_status", "cases.col_docs", "cases.col_tasks", "cases.col_opened"} {
				p.raw(`<th>`)
				p.t(key)
				p.raw(`</th>`)
			}
			p.raw(`</tr></thead><tbody>`)
			for i := range d.Cases {
				caseRow(p, &d.Cases[i], d.Now)
			}
			p.raw(`</tbody></table>`)
		}

		newCaseForm(p, d)
		p.raw(`</section>`)
	})
}

func caseRow(p *page, c *models.Case, now time.Time) {
	rowClass := "clickable"
	if c.DocumentsOverdue(now) {
		rowClass += " overdue"
	}
	p.raw(`<tr`, attr("class", rowClass), action("open_case", "case_id", c.ID), `><td>`)
	p.text(c.CaseNum)
	p.raw(`</td><td>`)
	p.text(c.ClientName())
	p.raw(`</td><td>`)
	if c.CaseType != nil {
		p.text(c.CaseType.Name)
	}
	p.raw(`</td><td>`)
	p.text(c.LawyerNames())
	p.raw(`</td><td><span`, attr("class", statusClass(c.Status)), `>`)
	p.t("status." + c.Status)
	p.raw(`</span></td><td>`)
	if c.AllDocumentsSigned() {
		p.raw(`<span class="ok">&#10003;</span>`)
	} else if c.DocumentsOverdue(now) {
		p.raw(`<span class="badge badge-danger">`)
		p.t("cases.docs_overdue")
		p.raw(`</span>`)
	} else {
		p.text(formatDatePtr(c.DocsDeadline))
	}
	p.raw(`</td><td>`)
	p.text(strconv.Itoa(c.OpenTaskCount()))
	p.raw(`</td><td>`)
	p.text(formatDate(c.OpenDate))
	p.raw(`</td></tr>`)
}

func textInput(p *page, name, labelKey, value string, required bool) {
	p.raw(`<label>`)
	p.t(labelKey)
	p.raw(`<input type="text"`, attr("name", name), attr("value", value))
	if required {
		p.raw(` required`)
	}
	p.raw(`></label>`)
}

func newCaseForm(p *page, d CasesData) {
	p.raw(`<details class="modal"><summary class="button">`)
	p.t("cases.new")
	p.raw(`</summary><form class="form" ws-send>`)
	p.raw(`<input type="hidden" name="action" value="create_case">`)
	textInput(p, "case_num", "case.num", d.NextNumber, false)
	textInput(p, "first_name", "case.first_name", "", true)
	textInput(p, "last_name", "case.last_name", "", false)
	textInput(p, "tz", "case.national_id", "", false)
	textInput(p, "phone", "case.phone", "", false)
	textInput(p, "hmo", "case.hmo", "", false)
	textInput(p, "street", "case.street", "", false)
	textInput(p, "city", "case.city", "", false)
	textInput(p, "ta_num", "case.court_file", "", false)

	p.raw(`<label>`)
	p.t("case.type")
	p.raw(`<select name="case_type_id"><option value=""></option>`)
	for _, ct := range d.CaseTypes {
		p.raw(`<option`, attr("value", ct.ID), `>`)
		p.text(ct.Name)
		p.raw(`</option>`)
	}
	p.raw(`</select></label>`)

	p.raw(`<label>`)
	p.t("case.open_date")
	p.raw(`<input type="date" name="open_date"`, attr("value", d.Now.Format("2006-01-02")), `></label>`)

	p.raw(`<fieldset><legend>`)
	p.t("case.lawyers")
	p.raw(`</legend>`)
	for _, l := range d.Lawyers {
		p.raw(`<label class="check"><input type="checkbox" name="lawyer_ids"`, attr("value", l.ID), `> `)
		p.text(l.Name)
		p.raw(`</label>`)
	}
	p.raw(`</fieldset>`)

	p.raw(`<button type="submit">`)
	p.t("common.save")
	p.raw(`</button></form></details>`)
}
