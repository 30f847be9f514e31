package auth

// Package auth contains domain-level types for the client session.
// It is pure and free of transport/storage concerns.

import "encoding/json"

// Role represents an authorization role attached to a user profile.
// Values are the wire strings used by the CaféTec backend.
type Role string

const (
	RoleAdministrator Role = "administrador"
	RoleStudent       Role = "estudiante"
)

// RoleSet is the set of roles carried by a profile.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// Profile is the user record returned by the profile endpoint. The backend
// has shipped several shapes over time, so the raw payload is retained and
// roles are derived through NormalizeRoles.
type Profile struct {
	ID    int64  `json:"id_usuario"`
	Name  string `json:"nombre"`
	Email string `json:"email"`

	Raw json.RawMessage `json:"-"`
}

// Session is the resolved identity of the current user, or absent when
// unauthenticated. Roles is empty whenever Profile is nil. Loading is true
// only between process start (or a login call) and profile resolution.
type Session struct {
	Profile *Profile
	Roles   RoleSet
	Loading bool
}

// Authenticated reports whether a profile has been resolved.
func (s Session) Authenticated() bool { return s.Profile != nil }

// rawProfile mirrors the role-carrying fields across the known profile
// shapes: roles as an array of role objects, roles as a plain string, or a
// singular rol field.
type rawProfile struct {
	Roles json.RawMessage `json:"roles"`
	Rol   string          `json:"rol"`
}

type roleObject struct {
	Name Role `json:"nombre_rol"`
}

// NormalizeRoles derives the role set from a raw profile payload. Precedence,
// first match wins:
//
//  1. roles is an array of role objects: the set of each element's nombre_rol
//  2. roles is a string, including the empty string: a one-element set
//  3. the profile has a singular rol field: a one-element set
//  4. otherwise: the empty set
//
// A roles field holding JSON null counts as absent and falls through to rol.
func NormalizeRoles(raw json.RawMessage) RoleSet {
	var p rawProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return RoleSet{}
	}

	if len(p.Roles) > 0 && string(p.Roles) != "null" {
		var objects []roleObject
		if err := json.Unmarshal(p.Roles, &objects); err == nil {
			s := make(RoleSet, len(objects))
			for _, o := range objects {
				if o.Name != "" {
					s[o.Name] = struct{}{}
				}
			}
			return s
		}

		var single Role
		if err := json.Unmarshal(p.Roles, &single); err == nil {
			return NewRoleSet(single)
		}
	}

	if p.Rol != "" {
		return NewRoleSet(Role(p.Rol))
	}

	return RoleSet{}
}

// ParseProfile decodes a profile payload, retaining the raw record.
func ParseProfile(raw json.RawMessage) (Profile, error) {
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return Profile{}, err
	}
	p.Raw = append(json.RawMessage(nil), raw...)
	return p, nil
}
