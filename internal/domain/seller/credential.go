package seller

import "time"

// DefaultRefreshMargin is how close to expiry a credential may get
// before Manager.Token refreshes it.
const DefaultRefreshMargin = 5 * time.Minute

// Credential is the OAuth access/refresh token pair issued by the
// marketplace authorization server. It is persisted verbatim as JSON;
// stores treat it as an opaque blob.
type Credential struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	Scope        string    `json:"scope"`
	SellerID     string    `json:"seller_id"`
	ObtainedAt   time.Time `json:"obtained_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the access token is already past its expiry.
func (c *Credential) Expired() bool {
	return !time.Now().Before(c.ExpiresAt)
}

// NeedsRefresh reports whether the access token is within margin of
// its expiry. A non-positive margin falls back to DefaultRefreshMargin.
func (c *Credential) NeedsRefresh(margin time.Duration) bool {
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	return !time.Now().Add(margin).Before(c.ExpiresAt)
}

// Valid reports whether the credential can authenticate a request
// right now.
func (c *Credential) Valid() bool {
	return c != nil && c.AccessToken != "" && !c.Expired()
}
