package webui

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFiles embed.FS

type templateConfig struct {
	LeaderboardLimit int
}

type templateData struct {
	Config *templateConfig
	Data   interface{}
}

var templateFuncs = template.FuncMap{
	"ago": func(t time.Time) string {
		return humanize.Time(t)
	},
	"comma": func(n int) string {
		return humanize.Comma(int64(n))
	},
	"signed": func(n int) string {
		if n > 0 {
			return "+" + humanize.Comma(int64(n))
		}
		return humanize.Comma(int64(n))
	},
}

func (u *UI) setupTemplates() error {
	templates, err := template.New("").Funcs(templateFuncs).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		u.Config.Log.Err(err).Error("could not parse templates")
		return err
	}

	u.templates = templates
	return nil
}

func (u *UI) renderTemplate(w http.ResponseWriter, status int, tmpl string, data *templateData) {
	if data.Config == nil {
		data.Config = &templateConfig{
			LeaderboardLimit: u.Config.LeaderboardLimit,
		}
	}

	var buf bytes.Buffer
	err := u.templates.ExecuteTemplate(&buf, tmpl, data)
	if err != nil {
		u.Config.Log.Err(err).KV("template", tmpl).Error("could not render template")

		out := http.StatusText(http.StatusInternalServerError)
		if u.Config.Debug {
			out = err.Error()
		}

		http.Error(w, out, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (u *UI) renderError(w http.ResponseWriter, status int, err error) {
	u.renderTemplate(w, status, "error.html", &templateData{
		Data: &struct {
			Error string
		}{
			Error: err.Error(),
		},
	})
}
