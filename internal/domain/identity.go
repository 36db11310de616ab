package domain

// Identity is the actor a cart belongs to: a signed-in user or an anonymous
// guest session. Exactly one of the two IDs is set.
type Identity struct {
	UserID  string
	GuestID string
}

func UserIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

func GuestIdentity(guestID string) Identity {
	return Identity{GuestID: guestID}
}

func (i Identity) IsGuest() bool {
	return i.UserID == ""
}

// Key is the storage key for the identity's cart.
func (i Identity) Key() string {
	if i.IsGuest() {
		return i.GuestID
	}
	return i.UserID
}

func (i Identity) IsZero() bool {
	return i.UserID == "" && i.GuestID == ""
}
