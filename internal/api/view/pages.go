package view

import (
	"html/template"
	"net/http"

	"github.com/djabaro/stock-console/internal/core/credential"
	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/navigation"
)

// LoginPage is the data of the login view.
type LoginPage struct {
	Email    string
	Next     string
	Error    string
	Accounts []credential.Account
	Toasts   []domain.Toast
}

// MenuItem is one visible navigation entry.
type MenuItem struct {
	navigation.Entry
	Active bool
}

// ShellPage is the data of the authenticated layout around a section.
type ShellPage struct {
	Title  string
	User   domain.User
	Menu   []MenuItem
	Body   template.HTML
	Toasts []domain.Toast
}

// ErrorPage is the data of the page shown to browsers when a request fails.
type ErrorPage struct {
	Code    int
	Title   string
	Message string
	Toasts  []domain.Toast
}

// NewErrorPage fills in the French wording for code.
func NewErrorPage(code int) ErrorPage {
	p := ErrorPage{Code: code}
	switch code {
	case http.StatusNotFound:
		p.Title = "Page introuvable"
		p.Message = "La page demandée n'existe pas."
	case http.StatusForbidden:
		p.Title = "Accès refusé"
		p.Message = "Votre rôle ne permet pas d'accéder à cette page."
	default:
		p.Title = "Erreur"
		p.Message = "Une erreur est survenue. Veuillez réessayer."
	}
	return p
}

// NewMenu marks the entry matching current as active.
func NewMenu(entries []navigation.Entry, current string) []MenuItem {
	items := make([]MenuItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, MenuItem{Entry: e, Active: e.Path == current})
	}
	return items
}
