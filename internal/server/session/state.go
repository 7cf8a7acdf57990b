// Package session tracks who is logged in to a browser session and which
// review panel they are looking at.
package session

import (
	"fmt"

	"github.com/dmitrijs2005/filereview/internal/common"
)

type State string

const (
	Anonymous          State = "anonymous"
	Authenticated      State = "authenticated"
	ViewingUploadPanel State = "viewing_upload"
	ViewingFileList    State = "viewing_files"
)

type Event string

const (
	EventAuthenticate Event = "authenticate"
	EventSelectUpload Event = "select_upload"
	EventSelectFiles  Event = "select_files"
	EventLogout       Event = "logout"
)

// IsAuthenticated reports whether s belongs to a logged-in session.
func (s State) IsAuthenticated() bool {
	switch s {
	case Authenticated, ViewingUploadPanel, ViewingFileList:
		return true
	}
	return false
}

// Transition returns the state reached from s on ev, or an error wrapping
// common.ErrInvalidTransition.
func Transition(s State, ev Event) (State, error) {
	switch {
	case s == Anonymous && ev == EventAuthenticate:
		return Authenticated, nil
	case s.IsAuthenticated() && ev == EventSelectUpload:
		return ViewingUploadPanel, nil
	case s.IsAuthenticated() && ev == EventSelectFiles:
		return ViewingFileList, nil
	case s.IsAuthenticated() && ev == EventLogout:
		return Anonymous, nil
	}
	return s, fmt.Errorf("%w: %s on %s", common.ErrInvalidTransition, ev, s)
}
