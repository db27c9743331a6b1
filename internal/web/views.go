package web

import (
	"github.com/hongminglow/lendsqr-admin/internal/layout"
	"github.com/hongminglow/lendsqr-admin/internal/listing"
	"github.com/hongminglow/lendsqr-admin/internal/models"
)

// Page is embedded by every view rendered inside the layout.
type Page struct {
	Title string
	Shell layout.Shell
}

type LoginView struct {
	Error        string
	Email        string
	ShowPassword bool
	ToggleURL    string
}

// Column is a table header with its filter popover toggle.
type Column struct {
	Field     string
	Header    string
	ToggleURL string
	Open      bool
}

type Action struct {
	Label string
	URL   string
}

// Row is one rendered table row.
type Row struct {
	User        models.User
	OpenURL     string
	MenuURL     string
	MenuOpen    bool
	StatusClass string
	StatusLabel string
	Joined      string
	Actions     []Action
	ReturnTo    string
}

type Pager struct {
	Number       int
	TotalPages   int
	PrevDisabled bool
	NextDisabled bool
	PrevURL      string
	NextURL      string
}

type DashboardView struct {
	Page
	Cards         []listing.StatCard
	Error         string
	Columns       []Column
	Filters       map[string]string
	Organizations []string
	Statuses      []string
	Rows          []Row
	Pager         Pager
	CloseMenuURL  string
	Sidebar       bool
}

type UsersView struct {
	Page
	Error string
	Rows  []Row
	Pager Pager
}

type DetailView struct {
	Page
	User    models.User
	Record  []models.DetailItem
	Profile models.Profile
	BackURL string
	Source  string
}

type MissingView struct {
	Page
	BackURL string
}
