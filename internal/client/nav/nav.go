// Package nav names the screens of the app and the transitions between
// them. Services return a Navigation instead of driving the UI directly.
package nav

import "github.com/dmitrijs2005/cbtcompanion/internal/client/models"

type Route string

const (
	Login           Route = "Login"
	Signup          Route = "Signup"
	Chat            Route = "Chat"
	History         Route = "History"
	Profile         Route = "Profile"
	CrisisResources Route = "CrisisResources"
	ForgotPassword  Route = "ForgotPassword"
	VerifyCode      Route = "VerifyCode"
	NewPassword     Route = "NewPassword"

	// HelpSupport and Settings are reserved for the profile menu. Nothing
	// navigates to them yet; they only need a credential.
	HelpSupport Route = "HelpSupport"
	Settings    Route = "Settings"
)

// Routes lists every known route.
var Routes = []Route{
	Login, Signup, Chat, History, Profile, CrisisResources,
	ForgotPassword, VerifyCode, NewPassword, HelpSupport, Settings,
}

// Valid reports whether r is one of Routes.
func (r Route) Valid() bool {
	for _, known := range Routes {
		if r == known {
			return true
		}
	}
	return false
}

// RequiresAuth reports whether r is only reachable with a credential.
func (r Route) RequiresAuth() bool {
	switch r {
	case Login, Signup, ForgotPassword, VerifyCode, NewPassword:
		return false
	default:
		return r.Valid()
	}
}

// Param keys.
const (
	ParamEmail          = "email"
	ParamCode           = "code"
	ParamConversationID = "conversationId"
)

// Navigation is a request to show Route. Replace drops the current screen
// from the back stack.
type Navigation struct {
	Route   Route
	Params  map[string]string
	Replace bool
}

func To(r Route) *Navigation {
	return &Navigation{Route: r}
}

// ReplaceWith is used after login, signup and session expiry.
func ReplaceWith(r Route) *Navigation {
	return &Navigation{Route: r, Replace: true}
}

func VerifyCodeFor(email string) *Navigation {
	return &Navigation{Route: VerifyCode, Params: map[string]string{ParamEmail: email}}
}

func NewPasswordFor(email, code string) *Navigation {
	return &Navigation{Route: NewPassword, Params: map[string]string{ParamEmail: email, ParamCode: code}}
}

// ChatWith opens the chat screen on an existing conversation.
func ChatWith(id models.ConversationID) *Navigation {
	return &Navigation{Route: Chat, Params: map[string]string{ParamConversationID: id.String()}}
}

// Param returns the named parameter or "".
func (n *Navigation) Param(key string) string {
	if n == nil || n.Params == nil {
		return ""
	}
	return n.Params[key]
}
