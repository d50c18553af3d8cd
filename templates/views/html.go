// Package views renders every screen of the app as templ components.
package views

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"law_office_app_go/services/i18n"

	"github.com/a-h/templ"
)

// page accumulates markup and keeps the first write error
type page struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newPage(ctx context.Context, w io.Writer) *page {
	return &page{ctx: ctx, w: w}
}

func (p *page) raw(parts ...string) {
	for _, s := range parts {
		if p.err != nil {
			return
		}
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *page) text(s string) {
	p.raw(templ.EscapeString(s))
}

// t writes a translated, escaped string
func (p *page) t(key string, args ...map[string]interface{}) {
	p.text(i18n.T(p.ctx, key, args...))
}

func (p *page) render(c templ.Component) {
	if p.err != nil || c == nil {
		return
	}
	p.err = c.Render(p.ctx, p.w)
}

func (p *page) tr(key string) string {
	return i18n.T(p.ctx, key)
}

// attr renders name="value" with the value escaped
func attr(name, value string) string {
	return " " + name + `="` + templ.EscapeString(value) + `"`
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return strings.ReplaceAll(string(b), "'", `\u0027`)
}

// vals builds a single-quoted hx-vals attribute from key/value pairs
func vals(kv ...string) string {
	var b strings.Builder
	b.WriteString(` hx-vals='{`)
	for i := 0; i+1 < len(kv); i += 2 {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(jsonString(kv[i]))
		b.WriteString(":")
		b.WriteString(jsonString(kv[i+1]))
	}
	b.WriteString(`}'`)
	return b.String()
}

// action renders the attributes that send an action over the live socket on click
func action(name string, kv ...string) string {
	return ` ws-send hx-trigger="click"` + vals(append([]string{"action", name}, kv...)...)
}

func component(fn func(p *page)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		p := newPage(ctx, w)
		fn(p)
		return p.err
	})
}

const dateLayout = "02/01/2006"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func inputDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatFileSize renders a byte count for file lists
func formatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// relativeTime renders t as a short translated age
func relativeTime(ctx context.Context, t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return i18n.T(ctx, "time.just_now")
	case d < time.Hour:
		return i18n.T(ctx, "time.minutes_ago", map[string]interface{}{"n": int(d.Minutes())})
	case d < 24*time.Hour:
		return i18n.T(ctx, "time.hours_ago", map[string]interface{}{"n": int(d.Hours())})
	case d < 7*24*time.Hour:
		return i18n.T(ctx, "time.days_ago", map[string]interface{}{"n": int(d.Hours() / 24)})
	default:
		return formatDate(t)
	}
}

func statusClass(status string) string {
	return "status status-" + status
}

func urgencyClass(urgency string) string {
	return "urgency urgency-" + urgency
}

// OOB wraps c so that htmx swaps it into the element with id target
func OOB(target string, c templ.Component) templ.Component {
	return component(func(p *page) {
		p.raw(`<div`, attr("id", target), ` hx-swap-oob="innerHTML">`)
		p.render(c)
		p.raw(`</div>`)
	})
}

// ErrorPlaceholder is the inline message shown when a read fails
func ErrorPlaceholder(key string) templ.Component {
	return component(func(p *page) {
		p.raw(`<div class="placeholder placeholder-error" role="status">`)
		p.t(key)
		p.raw(`</div>`)
	})
}

// EmptyPlaceholder is shown for lists with nothing in them
func EmptyPlaceholder(key string) templ.Component {
	return component(func(p *page) {
		p.raw(`<div class="placeholder">`)
		p.t(key)
		p.raw(`</div>`)
	})
}
