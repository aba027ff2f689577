package common

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "farmportal_session"

// OAuthPasswordSentinel is stored in place of a password hash for accounts
// created through Google sign-in. Such accounts cannot log in locally.
const OAuthPasswordSentinel = "google"

// OAuthStateCookieName binds a Google sign-in state to the browser that
// started the flow.
const OAuthStateCookieName = "oauth_state"
