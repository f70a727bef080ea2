package gcal

import (
	"fmt"
	"html"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jortega/meetslot/pkg/logging"
)

// OAuthHandler runs the one-time consent flow that mints the offline refresh
// token the gateway authenticates with. Operator-facing; the minted token is
// shown once and stored in the environment by hand.
type OAuthHandler struct {
	conf   *oauth2.Config
	logger *logging.Logger
}

// NewOAuthHandler creates the consent-flow handler. Returns nil when the
// OAuth client or redirect URI is not configured.
func NewOAuthHandler(creds Credentials, redirectURI string, logger *logging.Logger) *OAuthHandler {
	if creds.ClientID == "" || creds.ClientSecret == "" || redirectURI == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &OAuthHandler{
		conf: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURI,
			Scopes:       scopes,
		},
		logger: logger,
	}
}

// Start redirects to the Google consent screen, requesting offline access so
// the callback receives a refresh token.
func (h *OAuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	url := h.conf.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback exchanges the consent code and renders the refresh token for the
// operator to store.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing code parameter", http.StatusBadRequest)
		return
	}

	token, err := h.conf.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth code exchange failed", "error", err)
		http.Error(w, "code exchange failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if token.RefreshToken == "" {
		fmt.Fprint(w, `<h2>Google Calendar connected</h2>
<p>No refresh token returned. Revoke the app's access and try again so the consent prompt is shown.</p>`)
		return
	}
	fmt.Fprintf(w, `<h2>Google Calendar connected</h2>
<p>Refresh token (store it as GOOGLE_REFRESH_TOKEN):</p>
<pre>%s</pre>`, html.EscapeString(token.RefreshToken))
}
