// Package layout describes the navigation chrome around every page: the
// sidebar menu, its open/closed state and the topbar.
package layout

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MobileBreakpoint is the viewport width below which the sidebar becomes an
// overlay.
const MobileBreakpoint = 1024

// AppVersion is shown in the sidebar footer.
const AppVersion = "v1.2.0"

// AdminName is shown in the topbar profile.
const AdminName = "Adedeji"

// MenuItem is one sidebar entry. Active is fixed per item, not derived from
// the current route.
type MenuItem struct {
	Label  string
	Icon   string
	Active bool
}

// MenuSection groups sidebar entries under an optional heading.
type MenuSection struct {
	Title string
	Items []MenuItem
}

// Menu returns the sidebar sections.
func Menu() []MenuSection {
	return []MenuSection{
		{Items: []MenuItem{{Label: "Dashboard", Icon: "home"}}},
		{
			Title: "CUSTOMERS",
			Items: []MenuItem{
				{Label: "Users", Icon: "users", Active: true},
				{Label: "Guarantors", Icon: "user-check"},
				{Label: "Loans", Icon: "hand-coins"},
				{Label: "Decision Models", Icon: "scale"},
				{Label: "Savings", Icon: "piggy-bank"},
				{Label: "Loan Requests", Icon: "file-text"},
				{Label: "Whitelist", Icon: "user-cog"},
				{Label: "Karma", Icon: "bar-chart"},
			},
		},
		{
			Title: "BUSINESSES",
			Items: []MenuItem{
				{Label: "Organization", Icon: "briefcase"},
				{Label: "Loan Products", Icon: "file-text"},
				{Label: "Savings Products", Icon: "building"},
				{Label: "Fees and Charges", Icon: "coins"},
				{Label: "Transactions", Icon: "file-search"},
				{Label: "Services", Icon: "trending-up"},
				{Label: "Service Account", Icon: "user-cog"},
				{Label: "Settlements", Icon: "bar-chart"},
				{Label: "Reports", Icon: "credit-card"},
			},
		},
		{
			Title: "SETTINGS",
			Items: []MenuItem{
				{Label: "Preferences", Icon: "user-cog"},
				{Label: "Fees and Pricing", Icon: "wallet"},
				{Label: "Audit Logs", Icon: "bar-chart"},
			},
		},
	}
}

// Sidebar is the open/closed state of the navigation drawer.
type Sidebar struct {
	open   bool
	mobile bool
}

// Open reports whether the drawer is showing.
func (s Sidebar) Open() bool { return s.open }

// Mobile reports whether the last known viewport was below MobileBreakpoint.
func (s Sidebar) Mobile() bool { return s.mobile }

// Toggle flips the drawer, as the menu button does.
func (s *Sidebar) Toggle() { s.open = !s.open }

// Close hides the drawer.
func (s *Sidebar) Close() { s.open = false }

// Resize records a new viewport width. Any width at or above the breakpoint
// closes the drawer.
func (s *Sidebar) Resize(width int) {
	s.mobile = width < MobileBreakpoint
	if !s.mobile {
		s.open = false
	}
}

// NavClick closes the drawer on mobile viewports only.
func (s *Sidebar) NavClick() {
	if s.mobile {
		s.Close()
	}
}

// SidebarParam is the query parameter that carries the drawer state.
const SidebarParam = "sidebar"

// ViewportHintHeader is the client hint that reports the viewport width.
const ViewportHintHeader = "Sec-CH-Viewport-Width"

// ViewportWidth reads the viewport client hint, returning 0 when it is absent
// or malformed.
func ViewportWidth(h http.Header) int {
	width, err := strconv.Atoi(strings.TrimSpace(h.Get(ViewportHintHeader)))
	if err != nil || width < 0 {
		return 0
	}
	return width
}

// Shell is the data the layout template needs.
type Shell struct {
	Sections  []MenuSection
	Sidebar   Sidebar
	ToggleURL string
	CloseURL  string
	NavURL    string
	Version   string
	AdminName string
}

// NewShell derives the chrome for the page at current. The drawer state
// travels in the query string so the menu button works without scripts.
// width is the viewport width when known; an unknown width (0) counts as
// mobile, so nav links close the drawer.
func NewShell(current *url.URL, width int) Shell {
	var sb Sidebar
	if current.Query().Get(SidebarParam) == "open" {
		sb.Toggle()
	}
	sb.Resize(width)

	toggled := sb
	toggled.Toggle()

	closed := sb
	closed.Close()

	navigated := sb
	navigated.NavClick()

	return Shell{
		Sections:  Menu(),
		Sidebar:   sb,
		ToggleURL: withSidebar(current, toggled),
		CloseURL:  withSidebar(current, closed),
		NavURL:    withSidebar(current, navigated),
		Version:   AppVersion,
		AdminName: AdminName,
	}
}

func withSidebar(current *url.URL, sb Sidebar) string {
	u := *current
	q := u.Query()
	if sb.Open() {
		q.Set(SidebarParam, "open")
	} else {
		q.Del(SidebarParam)
	}
	u.RawQuery = q.Encode()
	u.Scheme, u.Host, u.User = "", "", nil
	return u.RequestURI()
}
