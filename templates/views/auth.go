package views

import (
	"github.com/a-h/templ"
)

// AuthData fills the sign-in and sign-up pages
type AuthData struct {
	Lang      string
	Nonce     string
	CSRFToken string
	Error     string
	Email     string
	FullName  string
	Role      string
	Office    string

	AssetVersion string
}

func authPage(d AuthData, titleKey string, body func(p *page)) templ.Component {
	return component(func(p *page) {
		head(p, d.Lang, d.Nonce, d.AssetVersion, titleKey)
		p.raw(`<body class="auth"><main class="auth-card"><h1>`)
		p.t(titleKey)
		p.raw(`</h1>`)
		if d.Error != "" {
			p.raw(`<div class="form-error" role="alert">`)
			p.text(d.Error)
			p.raw(`</div>`)
		}
		body(p)
		p.raw(`<nav class="lang"><a href="?lang=he">עברית</a> | <a href="?lang=en">English</a></nav>`)
		p.raw(`</main></body></html>`)
	})
}

func csrfField(p *page, token string) {
	p.raw(`<input type="hidden" name="_csrf"`, attr("value", token), `>`)
}

// Login is the sign-in page
func Login(d AuthData) templ.Component {
	return authPage(d, "auth.login_title", func(p *page) {
		p.raw(`<form method="post" action="/login" class="form">`)
		csrfField(p, d.CSRFToken)
		p.raw(`<label>`)
		p.t("auth.email")
		p.raw(`<input type="email" name="email" required autofocus`, attr("value", d.Email), `></label><label>`)
		p.t("auth.password")
		p.raw(`<input type="password" name="password" required></label><button type="submit">`)
		p.t("auth.login")
		p.raw(`</button></form><p><a href="/signup">`)
		p.t("auth.to_signup")
		p.raw(`</a></p>`)
	})
}

// Signup is the registration page
func Signup(d AuthData) templ.Component {
	return authPage(d, "auth.signup_title", func(p *page) {
		p.raw(`<form method="post" action="/signup" class="form">`)
		csrfField(p, d.CSRFToken)
		p.raw(`<label>`)
		p.t("auth.full_name")
		p.raw(`<input type="text" name="full_name" required`, attr("value", d.FullName), `></label><label>`)
		p.t("auth.email")
		p.raw(`<input type="email" name="email" required`, attr("value", d.Email), `></label><label>`)
		p.t("auth.password")
		p.raw(`<input type="password" name="password" minlength="6" required></label><label>`)
		p.t("auth.role")
		p.raw(`<select name="role">`)
		for _, r := range []string{"lawyer", "admin"} {
			p.raw(`<option`, attr("value", r))
			if r == d.Role {
				p.raw(` selected`)
			}
			p.raw(`>`)
			p.t("role." + r)
			p.raw(`</option>`)
		}
		p.raw(`</select></label><label>`)
		p.t("auth.office_name")
		p.raw(`<input type="text" name="office_name"`, attr("value", d.Office), attr("placeholder", p.tr("auth.office_hint")), `></label><button type="submit">`)
		p.t("auth.signup")
		p.raw(`</button></form><p><a href="/login">`)
		p.t("auth.to_login")
		p.raw(`</a></p>`)
	})
}
