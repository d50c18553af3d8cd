package views

import (
	"strconv"

	"law_office_app_go/models"
	"law_office_app_go/services"

	"github.com/a-h/templ"
)

// OfficeData feeds the office screen
type OfficeData struct {
	Office  *models.Office
	Members []services.MemberSummary
}

// Office shows the office details and its members
func Office(d OfficeData) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="office"><h1>`)
		p.t("office.title")
		p.raw(`</h1>`)
		if d.Office == nil {
			p.render(ErrorPlaceholder("office.load_error"))
			p.raw(`</section>`)
			return
		}

		p.raw(`<form class="form" ws-send><input type="hidden" name="action" value="update_office">`)
		textInput(p, "name", "office.name", d.Office.Name, true)
		textInput(p, "address", "office.address", d.Office.Address, false)
		textInput(p, "phone", "office.phone", d.Office.Phone, false)
		textInput(p, "email", "office.email", d.Office.Email, false)
		p.raw(`<button type="submit">`)
		p.t("common.save")
		p.raw(`</button></form>`)

		p.raw(`<h2>`)
		p.t("office.members")
		p.raw(`</h2>`)
		if len(d.Members) == 0 {
			p.render(EmptyPlaceholder("office.no_members"))
		} else {
			p.raw(`<table><thead><tr><th>`)
			p.t("office.member_name")
			p.raw(`</th><th>`)
			p.t("office.member_email")
			p.raw(`</th><th>`)
			p.t("office.member_cases")
			p.raw(`</th><th></th></tr></thead><tbody>`)
			for _, m := range d.Members {
				p.raw(`<tr><td>`)
				p.text(m.Lawyer.Name)
				p.raw(`</td><td>`)
				p.text(m.Lawyer.Email)
				p.raw(`</td><td>`)
				p.text(strconv.FormatInt(m.CaseCount, 10))
				p.raw(`</td><td>`)
				deleteButton(p, "remove_member", m.Lawyer.ID)
				p.raw(`</td></tr>`)
			}
			p.raw(`</tbody></table>`)
		}

		p.raw(`<details><summary class="button">`)
		p.t("office.add_member")
		p.raw(`</summary><form class="form" ws-send autocomplete="off"><input type="hidden" name="action" value="add_member">`)
		textInput(p, "name", "office.member_name", "", true)
		textInput(p, "email", "office.member_email", "", true)
		p.raw(`<label>`)
		p.t("auth.password")
		p.raw(`<input type="password" name="password" minlength="6" required></label><button type="submit">`)
		p.t("common.add")
		p.raw(`</button></form></details></section>`)
	})
}
