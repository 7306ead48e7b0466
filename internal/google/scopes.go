package google

// DefaultOAuthScopes are the Google OAuth scopes the engine needs.
//
// The scopes provide access to:
//   - Google Calendar: full access to the primary calendar
//   - Google Tasks: full access to the default task list
var DefaultOAuthScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/tasks",
}
