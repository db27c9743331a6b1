package listing

// Action is a row action menu entry.
type Action string

const (
	ActionView      Action = "view"
	ActionBlacklist Action = "blacklist"
	ActionActivate  Action = "activate"
)

// Actions lists the menu entries in display order.
var Actions = []Action{ActionView, ActionBlacklist, ActionActivate}

// ParseAction resolves a path segment to a known action.
func ParseAction(raw string) (Action, bool) {
	for _, a := range Actions {
		if string(a) == raw {
			return a, true
		}
	}
	return "", false
}

// Label is the menu text for the action.
func (a Action) Label() string {
	switch a {
	case ActionView:
		return "View Details"
	case ActionBlacklist:
		return "Blacklist User"
	case ActionActivate:
		return "Activate User"
	default:
		return string(a)
	}
}

// ActionMenu tracks the single row whose action menu is open.
type ActionMenu struct {
	open string
}

// NewActionMenu returns a menu state with id's menu open; "" means closed.
func NewActionMenu(id string) ActionMenu {
	return ActionMenu{open: id}
}

// Toggle opens id's menu, closing any other, or closes it if already open.
func (m *ActionMenu) Toggle(id string) {
	if m.open == id {
		m.open = ""
		return
	}
	m.open = id
}

// Close closes whichever menu is open, as an outside click does.
func (m *ActionMenu) Close() {
	m.open = ""
}

// IsOpen reports whether id's menu is open.
func (m ActionMenu) IsOpen(id string) bool {
	return m.open != "" && m.open == id
}

// OpenID returns the row whose menu is open, or "".
func (m ActionMenu) OpenID() string {
	return m.open
}
