package types

// RequestDetails describes one outbound network request from the surface.
type RequestDetails struct {
	ID           string
	URL          string
	Method       string
	ResourceType string
}

// RequestAction is a definitive interception outcome for a request event.
// A nil *RequestAction means "no opinion".
type RequestAction struct {
	RedirectURL string
	Cancel      bool
}

// Redirect builds a redirect action.
func Redirect(url string) *RequestAction {
	return &RequestAction{RedirectURL: url}
}

// Deny builds a cancel action.
func Deny() *RequestAction {
	return &RequestAction{Cancel: true}
}

// HeaderDetails describes one response-headers event.
type HeaderDetails struct {
	ID              string
	URL             string
	StatusLine      string
	ResponseHeaders map[string][]string
}

// HeaderAction is a definitive interception outcome for a headers event.
// A nil *HeaderAction means "no opinion".
type HeaderAction struct {
	Cancel          bool
	ResponseHeaders map[string][]string
}
