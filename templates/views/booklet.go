package views

import (
	"law_office_app_go/models"

	"github.com/a-h/templ"
)

// Booklet is the printable case summary
func Booklet(officeName string, c *models.Case) templ.Component {
	return component(func(p *page) {
		p.raw(`<h1>`)
		p.text(officeName)
		p.raw(`<br>`)
		p.t("booklet.title")
		p.raw(` #`)
		p.text(c.CaseNum)
		p.raw(`</h1>`)

		p.raw(`<div class="section"><h2>`)
		p.t("detail.client")
		p.raw(`</h2><table><tbody>`)
		row := func(labelKey, value string) {
			p.raw(`<tr><th>`)
			p.t(labelKey)
			p.raw(`</th><td>`)
			p.text(value)
			p.raw(`</td></tr>`)
		}
		row("cases.col_client", c.ClientName())
		row("case.national_id", c.NationalID)
		row("case.phone", c.Phone)
		row("case.hmo", c.HMO)
		row("case.street", c.Street)
		row("case.city", c.City)
		row("case.court_file", c.CourtFileNo)
		if c.CaseType != nil {
			row("case.type", c.CaseType.Name)
		}
		row("case.lawyers", c.LawyerNames())
		row("cases.col_status", p.tr("status."+c.Status))
		row("case.open_date", formatDate(c.OpenDate))
		p.raw(`</tbody></table></div>`)

		for _, eventType := range []string{models.EventTypeMedical, models.EventTypeLegal} {
			p.raw(`<div class="section"><h2>`)
			p.t("timeline." + eventType)
			p.raw(`</h2><table><tbody>`)
			for _, ev := range c.TimelineEvents {
				if ev.EventType != eventType {
					continue
				}
				class := ""
				if ev.IsPlan {
					class = "plan"
				}
				p.raw(`<tr`, attr("class", class), `><td>`)
				p.text(formatDate(ev.EventDate))
				p.raw(`</td><td><strong>`)
				p.text(ev.Title)
				p.raw(`</strong>`)
				if ev.Description != "" {
					p.raw(`<div>`, ev.Description, `</div>`)
				}
				p.raw(`</td></tr>`)
			}
			p.raw(`</tbody></table></div>`)
		}

		p.raw(`<div class="section"><h2>`)
		p.t("detail.documents")
		p.raw(`</h2><table><tbody>`)
		for _, d := range c.Documents {
			p.raw(`<tr><td>`)
			p.text(d.DocName)
			p.raw(`</td><td>`)
			p.t("document." + d.Status)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></div>`)

		p.raw(`<div class="section"><h2>`)
		p.t("detail.calls")
		p.raw(`</h2><table><tbody>`)
		for _, call := range c.Calls {
			p.raw(`<tr><td>`)
			p.text(formatDate(call.CallDate))
			p.raw(`</td><td>`)
			p.text(call.Content)
			p.raw(`</td></tr>`)
		}
		p.raw(`</tbody></table></div>`)
	})
}
