package domain

// Guild is the subset of a Discord server the bridge needs.
type Guild struct {
	ID string
}

// Member is a user's presence inside a guild.
type Member struct {
	GuildID string
	UserID  string
	RoleIDs []string
}

// HasRole reports whether the member already carries roleID.
func (m *Member) HasRole(roleID string) bool {
	if m == nil {
		return false
	}
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
