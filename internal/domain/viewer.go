package domain

// Viewer is the optional identity behind a read request. Anonymous is a
// normal state, not an error; operations that need a user check Authenticated.
type Viewer struct {
	userID string
}

// Anonymous returns a viewer with no identity.
func Anonymous() Viewer {
	return Viewer{}
}

// AuthenticatedAs returns a viewer for userID. An empty id is anonymous.
func AuthenticatedAs(userID string) Viewer {
	return Viewer{userID: userID}
}

// UserID returns the viewer's id and whether one is present.
func (v Viewer) UserID() (string, bool) {
	return v.userID, v.userID != ""
}

// Authenticated reports whether the viewer is signed in.
func (v Viewer) Authenticated() bool {
	return v.userID != ""
}

// Is reports whether the viewer is the given user.
func (v Viewer) Is(userID string) bool {
	return v.userID != "" && v.userID == userID
}
