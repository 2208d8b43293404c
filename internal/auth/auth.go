// Package auth supplies credentials to the transport layer. Providers
// are injected explicitly; nothing in the client reads tokens from
// ambient process state.
package auth

// Provider exposes the credentials a chat request may carry. Either
// value may be empty; the transport simply omits the matching header.
type Provider interface {
	AccessToken() string
	OrganizationKey() string
}

// Static is a fixed-value provider, typically fed from flags or the
// environment.
type Static struct {
	Token  string
	OrgKey string
}

func (s Static) AccessToken() string     { return s.Token }
func (s Static) OrganizationKey() string { return s.OrgKey }
