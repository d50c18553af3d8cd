package views

import (
	"strconv"
	"time"

	"law_office_app_go/services"

	"github.com/a-h/templ"
)

// Messages lists the conversations of the office, latest first
func Messages(convs []services.CaseConversation, now time.Time) templ.Component {
	return component(func(p *page) {
		p.raw(`<section class="messages"><h1>`)
		p.t("messages.title")
		p.raw(`</h1>`)
		if len(convs) == 0 {
			p.render(EmptyPlaceholder("messages.empty"))
			p.raw(`</section>`)
			return
		}
		p.raw(`<ul class="conversations">`)
		for _, conv := range convs {
			p.raw(`<li class="conversation clickable"`, action("open_case", "case_id", conv.Case.ID), `>`)
			p.raw(`<div class="conversation-head"><strong>`)
			p.text(conv.Case.ClientName())
			p.raw(`</strong> <span class="muted">#`)
			p.text(conv.Case.CaseNum)
			p.raw(`</span> <span class="count">`)
			p.text(strconv.Itoa(conv.MessageCount))
			p.raw(`</span></div><p class="preview">`)
			if conv.LastMessage.IsFromClient() {
				p.t("chat.client_prefix")
			} else {
				p.t("chat.lawyer_prefix")
			}
			p.raw(` `)
			p.text(truncate(conv.LastMessage.Body, 100))
			p.raw(`</p><span class="muted">`)
			p.text(relativeTime(p.ctx, conv.LastMessage.SentAt, now))
			p.raw(`</span></li>`)
		}
		p.raw(`</ul></section>`)
	})
}
