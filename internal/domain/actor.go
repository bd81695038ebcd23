package domain

// Role codes.
const (
	RoleSuperAdmin    = "super_admin"
	RoleNationalAdmin = "national_admin"
	RoleAdmin         = "admin"
	RoleReferee       = "referee"
)

// ValidRole reports whether code is a known role.
func ValidRole(code string) bool {
	switch code {
	case RoleSuperAdmin, RoleNationalAdmin, RoleAdmin, RoleReferee:
		return true
	}
	return false
}

// Actor is the authenticated caller, as decoded from the bearer token.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	ZoneID string `json:"zone_id,omitempty"`
}

// IsSuperAdmin reports whether the actor sees every zone.
func (a *Actor) IsSuperAdmin() bool { return a != nil && a.Role == RoleSuperAdmin }

// IsAdmin reports whether the actor has any administrative role.
func (a *Actor) IsAdmin() bool {
	if a == nil {
		return false
	}
	switch a.Role {
	case RoleSuperAdmin, RoleNationalAdmin, RoleAdmin:
		return true
	}
	return false
}

// CanAccessZone reports whether zone-scoped data of zoneID is visible to the actor.
func (a *Actor) CanAccessZone(zoneID string) bool {
	if a == nil {
		return false
	}
	if a.IsSuperAdmin() {
		return true
	}
	return a.ZoneID != "" && a.ZoneID == zoneID
}

// CanAccessTournament applies zone scoping to a tournament. National admins additionally see
// every national tournament.
func (a *Actor) CanAccessTournament(t *Tournament) bool {
	if a == nil || t == nil {
		return false
	}
	if a.CanAccessZone(t.ZoneID) {
		return true
	}
	return a.Role == RoleNationalAdmin && t.IsNational
}

// ZoneFilter returns the zone restriction to apply to list queries, or "" for no restriction.
func (a *Actor) ZoneFilter() string {
	if a == nil || a.IsSuperAdmin() {
		return ""
	}
	return a.ZoneID
}

// SeesNationalTournaments reports whether list queries should also include national
// tournaments outside ZoneFilter.
func (a *Actor) SeesNationalTournaments() bool {
	return a != nil && a.Role == RoleNationalAdmin
}
