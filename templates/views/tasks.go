package views

import (
	"law_office_app_go/services"

	"github.com/a-h/templ"
)

func boardRow(p *page, item services.BoardItem) {
	class := urgencyClass(item.Urgency)
	if item.Overdue {
		class += " overdue"
	}
	p.raw(`<li`, attr("class", "board-item clickable "+class), action("open_case", "case_id", item.CaseID), `>`)
	p.raw(`<span class="client">`)
	p.text(item.ClientName)
	p.raw(`</span> <span class="text">`)
	if item.Kind == services.BoardItemDocuments {
		p.t("tasks.unsigned_documents")
	} else {
		p.text(item.Text)
	}
	p.raw(`</span>`)
	if item.Date != nil {
		p.raw(` <span class="date">`)
		p.text(formatDatePtr(item.Date))
		p.raw(`</span>`)
	}
	if item.Overdue {
		p.raw(` <span class="badge badge-danger">`)
		p.t("tasks.overdue")
		p.raw(`</span>`)
	}
	p.raw(`</li>`)
}

// TaskBoard lists open work across the office, most pressing first
func TaskBoard(items []services.BoardItem) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="tasks"><h1>`)
		p.t("tasks.title")
		p.raw(`</h1>`)
		if len(items) == 0 {
			p.render(EmptyPlaceholder("tasks.empty"))
		} else {
			p.raw(`<ul class="board">`)
			for _, item := range items {
				boardRow(p, item)
			}
			p.raw(`</ul>`)
		}
		p.raw(`</section>`)
	})
}
