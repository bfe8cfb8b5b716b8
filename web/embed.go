// Package web embeds the page templates and the browser script.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html static/*
var files embed.FS

// Templates parses every page template. The "t" function is a placeholder;
// callers bind the page's translator with Clone and Funcs before executing.
func Templates() (*template.Template, error) {
	return template.New("pages").
		Funcs(template.FuncMap{"t": func(key string) string { return key }}).
		ParseFS(files, "templates/*.html")
}

func StaticFS() http.FileSystem {
	fsys, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(fsys)
}
