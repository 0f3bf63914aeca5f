// Package views renders the job board pages from embedded templates.
package views

import (
	"embed"
	"html/template"
	"strings"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/models"
	"github.com/justsurfingit/nextstep-web/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names, one per page.
const (
	HomeTemplate         = "home.html"
	LoginTemplate        = "login.html"
	RegisterTemplate     = "register.html"
	BrowseTemplate       = "browse.html"
	ManageTemplate       = "manage.html"
	AccountTemplate      = "account.html"
	ApplicationsTemplate = "applications.html"
	ApplyTemplate        = "apply.html"
)

var funcs = template.FuncMap{
	"roleLabel": RoleLabel,
	"capitalize": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// Templates parses every page together with the shared layout.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func RoleLabel(role string) string {
	switch role {
	case models.RoleRecruiter:
		return "Recruiter"
	case models.RoleJobSeeker:
		return "Job Seeker"
	default:
		return "Unknown"
	}
}

type Link struct {
	Label string
	Href  string
}

// Nav is the navigation bar derived from the current session.
type Nav struct {
	Authenticated bool
	Recruiter     bool
	Username      string
}

func NewNav(s session.Session) Nav {
	return Nav{
		Authenticated: s.Authenticated(),
		Recruiter:     s.IsRecruiter(),
		Username:      s.Username,
	}
}

// Links lists the plain navigation links. The signed-in label and the
// logout button are rendered separately.
func (n Nav) Links() []Link {
	links := []Link{{Label: "Browse Jobs", Href: "/browse"}}
	if !n.Authenticated {
		return append(links,
			Link{Label: "Login", Href: "/login"},
			Link{Label: "Register", Href: "/register"},
		)
	}
	if n.Recruiter {
		links = append(links,
			Link{Label: "Manage Jobs", Href: "/manage"},
			Link{Label: "View Applications", Href: "/applications"},
		)
	}
	return links
}

// Page is the state every page shares: inline success and error text.
type Page struct {
	Title   string
	Nav     Nav
	Message string
	Error   string
}

func NewPage(title string, s session.Session) Page {
	return Page{Title: title, Nav: NewNav(s)}
}

type LoginPage struct {
	Page
	Username string
}

type RegisterPage struct {
	Page
	Form dtos.RegisterForm
}

type BrowsePage struct {
	Page
	Jobs []models.Job
}

type ManagePage struct {
	Page
	Jobs          []models.Job
	Form          dtos.JobForm
	AssistEnabled bool
	RawText       string
}

type AccountPage struct {
	Page
	Account models.Account
	Loaded  bool
}

type ApplicationsPage struct {
	Page
	Applications []models.Application
	Loaded       bool
}

type ApplyPage struct {
	Page
	Job    models.Job
	Loaded bool
	Form   dtos.ApplyForm
}
