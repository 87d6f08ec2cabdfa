package model

import "fmt"

// RGB is a display color with 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex renders the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Material is a selectable finish offered by the catalog.  Materials are
// immutable once the catalog is built.
//
// Fields:
//
//	ID      – stable identifier referenced by components and material roles.
//	Name    – human readable name shown in selectors.
//	Color   – display color used by the geometry derivation.
//	Texture – optional texture reference for renderers that support it.
//	Price   – unit price added once per role that uses the material.
type Material struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Color   RGB     `json:"color"`
	Texture string  `json:"texture,omitempty"`
	Price   float64 `json:"price"`
}

// MaterialRole names one of the three configuration-level material slots.
type MaterialRole string

const (
	RoleBody    MaterialRole = "body"
	RoleDoors   MaterialRole = "doors"
	RoleHandles MaterialRole = "handles"
)

// MaterialRoles lists the roles in their canonical order.
var MaterialRoles = []MaterialRole{RoleBody, RoleDoors, RoleHandles}

// Valid reports whether r is one of the three known roles.
func (r MaterialRole) Valid() bool {
	switch r {
	case RoleBody, RoleDoors, RoleHandles:
		return true
	}
	return false
}

// Materials assigns a catalog material id to each role.  The ids are stored
// verbatim; consumers resolve them lazily and fall back when they are unknown.
type Materials struct {
	Body    string `json:"body"`
	Doors   string `json:"doors"`
	Handles string `json:"handles"`
}

// Get returns the material id assigned to role.
func (m Materials) Get(role MaterialRole) string {
	switch role {
	case RoleBody:
		return m.Body
	case RoleDoors:
		return m.Doors
	case RoleHandles:
		return m.Handles
	}
	return ""
}

// With returns a copy of m with role set to id.  Unknown roles leave m as is.
func (m Materials) With(role MaterialRole, id string) Materials {
	switch role {
	case RoleBody:
		m.Body = id
	case RoleDoors:
		m.Doors = id
	case RoleHandles:
		m.Handles = id
	}
	return m
}

// Default role assignments for a fresh configuration.
const (
	DefaultBodyMaterial    = "mat1"
	DefaultDoorsMaterial   = "mat2"
	DefaultHandlesMaterial = "mat6"
)

// DefaultMaterials returns the role assignment used by new configurations.
func DefaultMaterials() Materials {
	return Materials{
		Body:    DefaultBodyMaterial,
		Doors:   DefaultDoorsMaterial,
		Handles: DefaultHandlesMaterial,
	}
}
