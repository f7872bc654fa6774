// Package models holds the typed records persisted by the bot: users,
// command configurations, cron jobs and audit log rows. Kind tags are
// closed sets; per-kind option payloads are sealed types decoded and
// validated on load.
package models

import "time"

// Role is a chat user's effective role, derived from the flag columns
// in priority order (streamer wins over admin, admin over mod, ...).
type Role string

const (
	RoleStreamer Role = "streamer"
	RoleAdmin    Role = "admin"
	RoleMod      Role = "mod"
	RoleVip      Role = "vip"
	RoleSub      Role = "sub"
	RoleMember   Role = "member"
)

// AllRoles lists every role, highest priority first.
var AllRoles = []Role{RoleStreamer, RoleAdmin, RoleMod, RoleVip, RoleSub, RoleMember}

// User is a chat participant with a points balance. Created on first
// sighting in chat; display fields and role flags are refreshed on every
// sighting. Points are mutated only through the ledger, the per-command
// call times only by the dispatcher.
type User struct {
	ID         int64
	UserID     string // opaque platform id (IRC login), unique
	Username   string // display name, mutable
	Points     int
	Color      string
	IsSub      bool
	IsVip      bool
	IsMod      bool
	IsAdmin    bool
	IsStreamer bool
	// Commands maps a command kind to the last time this user
	// successfully invoked it (per-user cooldown anchor).
	Commands  map[CommandKind]time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSighting is the identity and role snapshot extracted from one chat
// message, used to create or refresh the persisted user.
type UserSighting struct {
	UserID     string
	Username   string
	Color      string
	IsSub      bool
	IsVip      bool
	IsMod      bool
	IsAdmin    bool
	IsStreamer bool
}

// Role derives the single effective role from the flag columns.
func (u *User) Role() Role {
	switch {
	case u.IsStreamer:
		return RoleStreamer
	case u.IsAdmin:
		return RoleAdmin
	case u.IsMod:
		return RoleMod
	case u.IsVip:
		return RoleVip
	case u.IsSub:
		return RoleSub
	default:
		return RoleMember
	}
}
