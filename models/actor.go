package models

// ActorRole identifies which side of a conversation a caller is on.
type ActorRole string

const (
	RoleUser      ActorRole = "user"
	RoleSuperstar ActorRole = "superstar"
)

func (r ActorRole) Valid() bool {
	return r == RoleUser || r == RoleSuperstar
}

// Opposite returns the other party's role. Messages "from the other side"
// are always selected through this.
func (r ActorRole) Opposite() ActorRole {
	if r == RoleUser {
		return RoleSuperstar
	}
	return RoleUser
}

// Actor is the authenticated caller of an operation: a role plus the id of
// the user or superstar record behind it. Carrying both in one value keeps
// role and id from drifting apart between middleware and service.
type Actor struct {
	Role ActorRole `json:"role"`
	ID   uint      `json:"id"`
}

func UserActor(id uint) Actor {
	return Actor{Role: RoleUser, ID: id}
}

func SuperstarActor(id uint) Actor {
	return Actor{Role: RoleSuperstar, ID: id}
}
