// Package model defines the content repository entities.
package model

import "time"

// Entry statuses.
const (
	StatusOpen  = "open"
	StatusClose = "close"
	StatusDraft = "draft"
	StatusTrash = "trash"
)

// Approval states.
const (
	ApprovalApproved = "approved"
	ApprovalPending  = "pending"
)

// Blog is a tenant node in the blog tree. Lft/Rgt are nested-set bounds
// used for subtree and ancestor range queries.
type Blog struct {
	ID       int64
	ParentID *int64
	Lft      int64
	Rgt      int64
	Code     string
	Name     string
	Status   string
	Indexing bool
	Secret   bool
}

// Category is a node in a per-tenant category tree. A nil BlogID marks a
// global category shared across tenants.
type Category struct {
	ID       int64
	BlogID   *int64
	ParentID *int64
	Lft      int64
	Rgt      int64
	Code     string
	Name     string
	Status   string
	Indexing bool
}

// Entry is the content unit.
type Entry struct {
	ID            int64
	BlogID        int64
	CategoryID    *int64
	UserID        int64
	Code          string
	Title         string
	Summary       string
	Body          string
	Status        string
	Approval      string
	Start         time.Time
	End           time.Time
	Posted        time.Time
	Updated       time.Time
	Sort          int64
	UserSort      int64
	CategorySort  int64
	PrimaryUnitID *int64
	Indexing      bool
	MembersOnly   bool
}

// Tag is a name attached to an entry, ordered by an explicit sort value.
type Tag struct {
	EntryID int64
	BlogID  int64
	Name    string
	Sort    int64
}

// Field owner kinds.
const (
	FieldKindEntry    = "entry"
	FieldKindUser     = "user"
	FieldKindBlog     = "blog"
	FieldKindCategory = "category"
)

// Field is typed key-value extension data addressable by owner kind,
// owner id, and key.
type Field struct {
	Kind    string
	OwnerID int64
	Key     string
	Value   string
	Sort    int64
}

// Unit is a content unit attached to an entry. Image units carry the
// media attributes the unit-based main-image strategy resolves.
type Unit struct {
	ID      int64
	EntryID int64
	Kind    string
	Sort    int64
	Hidden  bool
	Path    string
	Alt     string
	X       int64
	Y       int64
}

// Related is a typed entry-to-entry association.
type Related struct {
	EntryID   int64
	RelatedID int64
	Kind      string
	Sort      int64
}

// User owns entries.
type User struct {
	ID     int64
	BlogID int64
	Code   string
	Name   string
	Status string
}

// Image is the resolved main image of an entry, produced by either
// main-image strategy.
type Image struct {
	EntryID int64
	Path    string
	Alt     string
	X       int64
	Y       int64
}
