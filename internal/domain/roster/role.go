package roster

import (
	"fmt"
	"strings"
)

// RoleKey identifies a roster role. An entry holds at most one role.
type RoleKey string

const (
	RoleNone        RoleKey = ""
	RoleCaptain     RoleKey = "captain"
	RoleViceCaptain RoleKey = "vice_captain"
	RoleHeadCoach   RoleKey = "head_coach"
	RoleViceCoach   RoleKey = "vice_coach"
	RoleTeamManager RoleKey = "team_manager"
)

// AllRoles lists the role catalogue in display order.
var AllRoles = []RoleKey{
	RoleCaptain,
	RoleViceCaptain,
	RoleHeadCoach,
	RoleViceCoach,
	RoleTeamManager,
}

var roleLabels = map[RoleKey]string{
	RoleCaptain:     "C.",
	RoleViceCaptain: "V.C.",
	RoleHeadCoach:   "Allen.",
	RoleViceCoach:   "V.Allen.",
	RoleTeamManager: "Dir. Acc",
}

// specialPriority ranks exclusive-special roles in the ordering policy.
// Special roles missing from this map sort after the ranked ones.
var specialPriority = map[RoleKey]int{
	RoleHeadCoach:   1,
	RoleViceCoach:   2,
	RoleTeamManager: 3,
}

// legacy sheet keys still used by older exports and clients.
var roleAliases = map[string]RoleKey{
	"c":      RoleCaptain,
	"vc":     RoleViceCaptain,
	"allen":  RoleHeadCoach,
	"vallen": RoleViceCoach,
	"diracc": RoleTeamManager,
}

const unrankedPriority = 999

// ParseRoleKey accepts canonical keys and the legacy short keys, case-insensitively.
// An empty string maps to RoleNone.
func ParseRoleKey(raw string) (RoleKey, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return RoleNone, nil
	}
	if alias, ok := roleAliases[value]; ok {
		return alias, nil
	}

	key := RoleKey(value)
	if !key.Valid() {
		return RoleNone, fmt.Errorf("unknown role %q", raw)
	}
	return key, nil
}

func (k RoleKey) Valid() bool {
	_, ok := roleLabels[k]
	return ok
}

// IsSpecial reports whether the role is exclusive-special, i.e. its holder has no
// jersey number.
func (k RoleKey) IsSpecial() bool {
	switch k {
	case RoleHeadCoach, RoleViceCoach, RoleTeamManager:
		return true
	default:
		return false
	}
}

// Label is the short printed form used on the match sheet.
func (k RoleKey) Label() string {
	return roleLabels[k]
}

func (k RoleKey) String() string {
	return string(k)
}

func (k RoleKey) priority() int {
	if p, ok := specialPriority[k]; ok {
		return p
	}
	return unrankedPriority
}
