package views

import (
	"strconv"
	"time"

	"law_office_app_go/services"

	"github.com/a-h/templ"
)

func statCard(p *page, labelKey string, value int64, class string) {
	p.raw(`<div`, attr("class", "stat-card "+class), `><span class="stat-value">`)
	p.text(strconv.FormatInt(value, 10))
	p.raw(`</span><span class="stat-label">`)
	p.t(labelKey)
	p.raw(`</span></div>`)
}

// Dashboard is the admin landing screen
func Dashboard(stats services.DashboardStats, now time.Time) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="dashboard"><h1>`)
		p.t("dashboard.title")
		p.raw(`</h1><div class="stats">`)
		statCard(p, "dashboard.total_cases", int64(stats.Total()), "")
		statCard(p, "status.open", int64(stats.Open), "status-open")
		statCard(p, "status.process", int64(stats.InProcess), "status-process")
		statCard(p, "status.closed", int64(stats.Closed), "status-closed")
		statCard(p, "dashboard.pending_tasks", int64(stats.PendingTasks), "")
		statCard(p, "dashboard.urgent_tasks", int64(stats.UrgentTasks), "urgency-high")
		statCard(p, "dashboard.client_messages", stats.ClientMessages, "")
		p.raw(`</div>`)

		p.raw(`<div class="columns"><div class="panel"><h2>`)
		p.t("dashboard.urgent_list")
		p.raw(`</h2>`)
		if len(stats.UrgentList) == 0 {
			p.render(EmptyPlaceholder("dashboard.no_urgent"))
		} else {
			p.raw(`<ul class="urgent-list">`)
			for _, item := range stats.UrgentList {
				boardRow(p, item)
			}
			p.raw(`</ul>`)
		}
		p.raw(`</div>`)

		p.raw(`<div class="panel"><h2>`)
		p.t("dashboard.activity")
		p.raw(`</h2>`)
		if len(stats.Activity) == 0 {
			p.render(EmptyPlaceholder("dashboard.no_activity"))
		} else {
			p.raw(`<ul class="activity">`)
			for _, a := range stats.Activity {
				p.raw(`<li class="clickable"`, action("open_case", "case_id", a.CaseID), `><strong>`)
				p.text(a.ClientName)
				p.raw(`</strong> <span class="muted">#`)
				p.text(a.CaseNum)
				p.raw(`</span>`)
				if a.Message.IsFromClient() {
					p.raw(` <span class="badge">`)
					p.t("chat.from_client")
					p.raw(`</span>`)
				}
				p.raw(`<p>`)
				p.text(truncate(a.Message.Body, 80))
				p.raw(`</p><span class="muted">`)
				p.text(relativeTime(p.ctx, a.Message.SentAt, now))
				p.raw(`</span></li>`)
			}
			p.raw(`</ul>`)
		}
		p.raw(`</div></div></section>`)
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
