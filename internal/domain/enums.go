package domain

// FormMode tracks whether the edit form is hidden, creating a new record,
// or editing an existing one.
type FormMode int

const (
	FormNone FormMode = iota
	FormCreate
	FormUpdate
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormUpdate:
		return "update"
	default:
		return "none"
	}
}

// IsOpen reports whether the form is visible.
func (m FormMode) IsOpen() bool { return m == FormCreate || m == FormUpdate }

// MemberRole is a project member role.
type MemberRole string

const (
	MemberRoleOwner     MemberRole = "OWNER"
	MemberRoleManager   MemberRole = "MANAGER"
	MemberRoleDeveloper MemberRole = "DEVELOPER"
	MemberRoleTester    MemberRole = "TESTER"
	MemberRoleViewer    MemberRole = "VIEWER"
)

func (r MemberRole) String() string { return string(r) }

func (r MemberRole) IsValid() bool {
	switch r {
	case MemberRoleOwner, MemberRoleManager, MemberRoleDeveloper, MemberRoleTester, MemberRoleViewer:
		return true
	}
	return false
}

// MemberRoles lists every role in display order.
func MemberRoles() []MemberRole {
	return []MemberRole{MemberRoleOwner, MemberRoleManager, MemberRoleDeveloper, MemberRoleTester, MemberRoleViewer}
}

// OrderStatus is the customer-facing status code of an order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusFixed     OrderStatus = "FIXED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

func (s OrderStatus) String() string { return string(s) }

// Approvable reports whether the order can still be fixed by the customer.
func (s OrderStatus) Approvable() bool { return s == OrderStatusDraft }
