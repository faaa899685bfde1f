package permission

import (
	"sort"
	"strings"
)

// NodeType classifies a permission node.
type NodeType string

const (
	// TypeDirectory is a grouping node in the navigation tree.
	TypeDirectory NodeType = "DIRECTORY"
	// TypeMenu is a routable page in the navigation tree.
	TypeMenu NodeType = "MENU"
	// TypeButton is an action-level grant. Buttons carry a permission code
	// and never appear in the menu forest.
	TypeButton NodeType = "BUTTON"
)

// Row is one flattened role/permission row as returned by the credential
// store: user fields repeated on every row, one reachable permission node
// per row. A row with ID 0 carries user fields only (active user with no
// reachable permission nodes).
type Row struct {
	RoleNames string
	NickName  string
	Avatar    string
	UserName  string

	ID         int64
	PID        int64
	Name       string
	Path       string
	Permission string
	Type       NodeType
	Component  string
	Cache      bool
	Hidden     bool
	Icon       string
	Redirect   string
	Props      string
	Sort       int
}

// MenuNode is the navigation projection of a DIRECTORY or MENU row.
type MenuNode struct {
	ID        int64      `json:"id"`
	PID       int64      `json:"pid"`
	Name      string     `json:"name"`
	Path      string     `json:"path"`
	Component string     `json:"component,omitempty"`
	Type      NodeType   `json:"type"`
	Cache     bool       `json:"cache"`
	Hidden    bool       `json:"hidden"`
	Icon      string     `json:"icon,omitempty"`
	Redirect  string     `json:"redirect,omitempty"`
	Props     string     `json:"props,omitempty"`
	Sort      int        `json:"sort"`
	Children  []*MenuNode `json:"children,omitempty"`
}

// NodeID implements [Node].
func (n *MenuNode) NodeID() int64 { return n.ID }

// ParentID implements [Node].
func (n *MenuNode) ParentID() int64 { return n.PID }

// AddChild implements [Node].
func (n *MenuNode) AddChild(child *MenuNode) { n.Children = append(n.Children, child) }

// MenuForest projects the DIRECTORY/MENU rows into nodes, orders them by
// Sort descending (input order as tiebreak), and arranges them into a
// forest. Rows repeat per role, so nodes are deduplicated by id before
// ordering.
func MenuForest(rows []Row) []*MenuNode {
	seen := make(map[int64]struct{}, len(rows))
	nodes := make([]*MenuNode, 0, len(rows))
	for _, row := range rows {
		if row.ID == 0 || row.Type == TypeButton {
			continue
		}
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		nodes = append(nodes, &MenuNode{
			ID:        row.ID,
			PID:       row.PID,
			Name:      row.Name,
			Path:      row.Path,
			Component: row.Component,
			Type:      row.Type,
			Cache:     row.Cache,
			Hidden:    row.Hidden,
			Icon:      row.Icon,
			Redirect:  row.Redirect,
			Props:     row.Props,
			Sort:      row.Sort,
		})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Sort > nodes[j].Sort
	})

	return Build(nodes)
}

// Codes returns the deduplicated, non-empty permission codes across all
// rows, preserving first-seen order.
func Codes(rows []Row) []string {
	seen := make(map[string]struct{}, len(rows))
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(row.Permission)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	return codes
}

// Roles parses the aggregated comma-separated role-name field into a
// deduplicated list. An empty aggregate yields an empty list.
func Roles(aggregated string) []string {
	if strings.TrimSpace(aggregated) == "" {
		return []string{}
	}
	parts := strings.Split(aggregated, ",")
	seen := make(map[string]struct{}, len(parts))
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		roles = append(roles, name)
	}
	return roles
}
