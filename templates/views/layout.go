package views

import (
	"law_office_app_go/models"
	"law_office_app_go/services/i18n"

	"github.com/a-h/templ"
)

// Live-socket targets of the app shell
const (
	TargetNav       = "main-nav"
	TargetView      = "view-container"
	TargetChatBody  = "chat-body"
	TargetChatWin   = "chat-window"
	TargetChatInput = "chat-input"
	TargetAlerts    = "alerts"
)

// ShellData fills the app page around the live views
type ShellData struct {
	User       *models.User
	OfficeName string
	Lang       string
	Nonce      string
	CSRFToken  string

	// AssetVersion busts the stylesheet cache
	AssetVersion string
}

type navItem struct {
	view  string
	label string
	admin bool
}

var navItems = []navItem{
	{"dashboard", "nav.dashboard", true},
	{"cases", "nav.cases", false},
	{"tasks", "nav.tasks", false},
	{"msgs", "nav.messages", false},
	{"mgmt", "nav.management", false},
	{"office", "nav.office", true},
}

// Nav renders the menu with active marked
func Nav(active string, isAdmin bool) templ.Component {
	return component(func(p *page) {
		p.raw(`<ul class="nav">`)
		for _, item := range navItems {
			if item.admin && !isAdmin {
				continue
			}
			class := "nav-item"
			if item.view == active {
				class += " active"
			}
			p.raw(`<li`, attr("class", class), `><button type="button"`, action("navigate", "view", item.view), `>`)
			p.t(item.label)
			p.raw(`</button></li>`)
		}
		p.raw(`</ul>`)
	})
}

func head(p *page, lang, nonce, assetVersion, titleKey string) {
	p.raw(`<!DOCTYPE html><html`, attr("lang", lang), attr("dir", i18n.Direction(lang)), `><head>`)
	p.raw(`<meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	p.raw(`<title>`)
	p.t(titleKey)
	p.raw(`</title>`)
	href := "/static/css/app.css"
	if assetVersion != "" {
		href += "?v=" + assetVersion
	}
	p.raw(`<link rel="stylesheet"`, attr("href", href), `>`)
	p.raw(`<script src="https://unpkg.com/htmx.org@2.0.4"`, attr("nonce", nonce), `></script>`)
	p.raw(`<script src="https://unpkg.com/htmx-ext-ws@2.0.2/ws.js"`, attr("nonce", nonce), `></script>`)
	p.raw(`</head>`)
}

// Shell is the single page that hosts the live views
func Shell(d ShellData) templ.Component {
	return component(func(p *page) {
		isAdmin := d.User != nil && d.User.IsAdmin()
		head(p, d.Lang, d.Nonce, d.AssetVersion, "app.title")
		p.raw(`<body hx-ext="ws" ws-connect="/ws"`, attr("hx-headers", `{"X-CSRF-Token":"`+d.CSRFToken+`"}`), `>`)

		p.raw(`<header class="topbar"><span class="brand">`)
		p.text(d.OfficeName)
		p.raw(`</span><span class="user">`)
		if d.User != nil {
			p.text(d.User.Name)
		}
		p.raw(`</span><form method="post" action="/logout">`)
		p.raw(`<input type="hidden" name="_csrf"`, attr("value", d.CSRFToken), `>`)
		p.raw(`<button type="submit">`)
		p.t("auth.logout")
		p.raw(`</button></form></header>`)

		p.raw(`<nav`, attr("id", TargetNav), `>`)
		p.render(Nav("", isAdmin))
		p.raw(`</nav>`)

		p.raw(`<main`, attr("id", TargetView), `><div class="placeholder">`)
		p.t("common.loading")
		p.raw(`</div></main>`)

		p.render(ChatWindowFrame(false, false))
		p.raw(`<div`, attr("id", TargetAlerts), ` aria-live="assertive"></div>`)

		p.raw(`<script`, attr("nonce", d.Nonce), `>
document.body.addEventListener("htmx:oobAfterSwap", function (e) {
  if (e.detail.target && e.detail.target.id === "chat-body") {
    e.detail.target.scrollTop = e.detail.target.scrollHeight;
  }
});
document.body.addEventListener("htmx:wsAfterMessage", function (e) {
  var m = /^redirect:(.*)$/.exec(e.detail.message);
  if (m) { window.location.href = m[1]; }
});
</script>`)
		p.raw(`</body></html>`)
	})
}
