package models

import "encoding/json"

// Role names as the remote API stores them.
const (
	RoleAdmin   = "admin"
	RoleManager = "moderator"
	RoleCashier = "user"
)

// Display labels derived from the role list by precedence.
const (
	LabelAdmin   = "Primary Administrator"
	LabelManager = "Manager"
	LabelCashier = "Cashier"
	LabelPlain   = "User"
)

// User mirrors the remote API's account resource. Password is write-only
// and never rendered back.
type User struct {
	ID       string   `json:"_id,omitempty"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	Roles    RoleList `json:"roles,omitempty"`
}

// RoleList is the set of role names attached to a user. The API returns
// role entries either as bare names or as objects carrying a name field;
// both shapes are resolved here, at the decode boundary, so nothing
// downstream ever branches on shape.
type RoleList []string

func (r *RoleList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names := make([]string, 0, len(raw))
	for _, entry := range raw {
		var name string
		if err := json.Unmarshal(entry, &name); err == nil {
			names = append(names, name)
			continue
		}

		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil {
			return err
		}
		names = append(names, obj.Name)
	}

	*r = names
	return nil
}

// Has reports whether the list contains the given role name.
func (r RoleList) Has(name string) bool {
	for _, n := range r {
		if n == name {
			return true
		}
	}
	return false
}

// PrimaryRole resolves the list to a single role name, administrator
// taking precedence over manager over cashier. An empty string means no
// recognized role.
func (r RoleList) PrimaryRole() string {
	switch {
	case r.Has(RoleAdmin):
		return RoleAdmin
	case r.Has(RoleManager):
		return RoleManager
	case r.Has(RoleCashier):
		return RoleCashier
	default:
		return ""
	}
}

// RoleLabel returns the display label for the user's primary role.
func (u *User) RoleLabel() string {
	if u == nil {
		return LabelPlain
	}
	switch u.Roles.PrimaryRole() {
	case RoleAdmin:
		return LabelAdmin
	case RoleManager:
		return LabelManager
	case RoleCashier:
		return LabelCashier
	default:
		return LabelPlain
	}
}

// CanManage reports whether the user may perform write operations.
// Cashiers and unrecognized roles are read-only.
func (u *User) CanManage() bool {
	if u == nil {
		return false
	}
	return u.Roles.Has(RoleAdmin) || u.Roles.Has(RoleManager)
}
