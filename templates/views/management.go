package views

import (
	"strconv"

	"law_office_app_go/models"

	"github.com/a-h/templ"
)

// ManagementData feeds the reference data screen
type ManagementData struct {
	Lawyers   []models.Lawyer
	CaseTypes []models.CaseType
	Templates []models.Template
}

func addForm(p *page, actionName, labelKey string) {
	p.raw(`<form class="inline-form" ws-send>`)
	p.raw(`<input type="hidden" name="action"`, attr("value", actionName), `>`)
	p.raw(`<input type="text" name="name" required`, attr("placeholder", p.tr(labelKey)), `>`)
	p.raw(`<button type="submit">`)
	p.t("common.add")
	p.raw(`</button></form>`)
}

func deleteButton(p *page, actionName, id string) {
	p.raw(`<button type="button" class="danger"`, action(actionName, "id", id), attr("hx-confirm", p.tr("common.confirm_delete")), `>`)
	p.t("common.delete")
	p.raw(`</button>`)
}

// Management lists lawyers, case types and templates
func Management(d ManagementData) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="mgmt"><h1>`)
		p.t("mgmt.title")
		p.raw(`</h1><div class="columns">`)

		p.raw(`<div class="panel"><h2>`)
		p.t("mgmt.lawyers")
		p.raw(`</h2><ul>`)
		for _, l := range d.Lawyers {
			p.raw(`<li>`)
			p.text(l.Name)
			deleteButton(p, "delete_lawyer", l.ID)
			p.raw(`</li>`)
		}
		p.raw(`</ul>`)
		addForm(p, "add_lawyer", "mgmt.lawyer_name")
		p.raw(`</div>`)

		p.raw(`<div class="panel"><h2>`)
		p.t("mgmt.case_types")
		p.raw(`</h2><ul>`)
		for _, ct := range d.CaseTypes {
			p.raw(`<li>`)
			p.text(ct.Name)
			deleteButton(p, "delete_case_type", ct.ID)
			p.raw(`</li>`)
		}
		p.raw(`</ul>`)
		addForm(p, "add_case_type", "mgmt.case_type_name")
		p.raw(`</div>`)

		p.raw(`<div class="panel"><h2>`)
		p.t("mgmt.templates")
		p.raw(`</h2>`)
		for _, tpl := range d.Templates {
			p.raw(`<details class="template"><summary>`)
			p.text(tpl.Name)
			p.raw(` <span class="muted">(`)
			p.text(strconv.Itoa(len(tpl.Steps)))
			p.raw(`)</span></summary><ol>`)
			for _, s := range tpl.Steps {
				p.raw(`<li>`)
				p.text(s.StepText)
				p.raw(` <span class="muted">+`)
				p.text(strconv.Itoa(s.DaysFromStart))
				p.raw(`</span></li>`)
			}
			p.raw(`</ol>`)
			templateForm(p, "update_template", &tpl)
			deleteButton(p, "delete_template", tpl.ID)
			p.raw(`</details>`)
		}
		p.raw(`<details><summary class="button">`)
		p.t("mgmt.new_template")
		p.raw(`</summary>`)
		templateForm(p, "create_template", nil)
		p.raw(`</details></div>`)

		p.raw(`</div></section>`)
	})
}

// templateForm edits a template; steps are one per line as "days | text"
func templateForm(p *page, actionName string, tpl *models.Template) {
	name, steps := "", ""
	if tpl != nil {
		name = tpl.Name
		for _, s := range tpl.Steps {
			steps += strconv.Itoa(s.DaysFromStart) + " | " + s.StepText + "\n"
		}
	}
	p.raw(`<form class="form" ws-send>`)
	p.raw(`<input type="hidden" name="action"`, attr("value", actionName), `>`)
	if tpl != nil {
		p.raw(`<input type="hidden" name="id"`, attr("value", tpl.ID), `>`)
	}
	textInput(p, "name", "mgmt.template_name", name, true)
	p.raw(`<label>`)
	p.t("mgmt.template_steps")
	p.raw(`<textarea name="steps" rows="6"`, attr("placeholder", p.tr("mgmt.steps_hint")), `>`)
	p.text(steps)
	p.raw(`</textarea></label><button type="submit">`)
	p.t("common.save")
	p.raw(`</button></form>`)
}
