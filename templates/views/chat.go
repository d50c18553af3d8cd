package views

import (
	"strings"
	"time"

	"law_office_app_go/models"

	"github.com/a-h/templ"
)

const TargetChatTitle = "chat-title"

func chatStateClass(visible, minimized bool) string {
	class := "chat-state"
	if !visible {
		class += " hidden"
	}
	if minimized {
		class += " minimized"
	}
	return class
}

// ChatState is the marker element whose classes show, hide and minimize the chat panel
func ChatState(visible, minimized bool, oob bool) templ.Component {
	return component(func(p *page) {
		p.raw(`<div`, attr("id", TargetChatWin), attr("class", chatStateClass(visible, minimized)))
		if oob {
			p.raw(` hx-swap-oob="true"`)
		}
		p.raw(`></div>`)
	})
}

// ChatWindowFrame is the empty chat panel placed in the shell
func ChatWindowFrame(visible, minimized bool) templ.Component {
	return component(func(p *page) {
		p.render(ChatState(visible, minimized, false))
		p.raw(`<aside class="chat">`)
		p.raw(`<div class="chat-header"><span`, attr("id", TargetChatTitle), `></span>`)
		p.raw(`<button type="button" class="chat-toggle"`, action("chat_toggle"), attr("title", p.tr("chat.toggle")), `>_</button>`)
		p.raw(`<button type="button" class="chat-close"`, action("chat_close"), attr("title", p.tr("chat.close")), `>&times;</button>`)
		p.raw(`</div>`)
		p.raw(`<div class="chat-body"`, attr("id", TargetChatBody), `></div>`)
		p.raw(`<form class="chat-form" ws-send>`)
		p.raw(`<input type="hidden" name="action" value="chat_send">`)
		p.render(ChatInput(false))
		p.raw(`<button type="submit">`)
		p.t("chat.send")
		p.raw(`</button></form>`)
		p.raw(`</aside>`)
	})
}

// ChatInput is the compose box. Rendered out of band it replaces the filled one with an empty one.
func ChatInput(oob bool) templ.Component {
	return component(func(p *page) {
		p.raw(`<input type="text" name="message" autocomplete="off"`, attr("id", TargetChatInput), attr("placeholder", p.tr("chat.placeholder")))
		if oob {
			p.raw(` hx-swap-oob="true"`)
		}
		p.raw(`>`)
	})
}

// ChatTitle names the client of the open conversation
func ChatTitle(c *models.Case) templ.Component {
	return component(func(p *page) {
		if c == nil {
			return
		}
		p.text(c.ClientName())
		p.raw(` <small>#`)
		p.text(c.CaseNum)
		p.raw(`</small>`)
	})
}

// ChatMessages renders the whole conversation, or a placeholder when there is none
func ChatMessages(msgs []models.ChatMessage) templ.Component {
	return component(func(p *page) {
		if len(msgs) == 0 {
			p.render(EmptyPlaceholder("chat.empty"))
			return
		}
		for _, m := range msgs {
			class := "bubble bubble-lawyer"
			if m.IsFromClient() {
				class = "bubble bubble-client"
			}
			p.raw(`<div`, attr("class", class), attr("data-id", m.ID), `><div class="bubble-text">`)
			p.raw(strings.ReplaceAll(templ.EscapeString(m.Body), "\n", "<br>"))
			p.raw(`</div><time`, attr("datetime", m.SentAt.Format(time.RFC3339)), `>`)
			p.text(m.SentAt.Format("02/01 15:04"))
			p.raw(`</time></div>`)
		}
	})
}

// ChatError replaces the conversation when it could not be loaded
func ChatError() templ.Component {
	return ErrorPlaceholder("chat.load_error")
}

// Alert pops a blocking message over the app
func Alert(message string) templ.Component {
	return component(func(p *page) {
		p.raw(`<div`, attr("id", TargetAlerts), ` hx-swap-oob="beforeend">`)
		p.raw(`<dialog open class="alert" role="alertdialog"><p>`)
		p.text(message)
		p.raw(`</p><form method="dialog"><button type="submit">`)
		p.t("common.ok")
		p.raw(`</button></form></dialog></div>`)
	})
}
