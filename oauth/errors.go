package oauth

import "fmt"

// ConfigError reports invalid flow configuration: malformed credentials or a
// redirect URL that is not an absolute URL with a host and port.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "oauth config: " + e.Reason
}

// InvalidScopeError reports a scope that is not in the fixed whitelist of
// scopes accepted by the authorization server.
type InvalidScopeError struct {
	Scope string
}

func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid scope %q", e.Scope)
}

// CallbackParseError reports a redirect callback request that could not be
// parsed, or that is missing the code or state query parameter.
type CallbackParseError struct {
	Reason string
}

func (e *CallbackParseError) Error() string {
	return "parsing authorization callback: " + e.Reason
}

// CsrfMismatchError reports that the state echoed by the authorization
// server does not match the state generated for this attempt. The flow
// fails closed: no token exchange is performed. The token values are
// deliberately not included in the message.
type CsrfMismatchError struct{}

func (e *CsrfMismatchError) Error() string {
	return "authorization state does not match, rejecting callback"
}

// RevocationError reports a failed token revocation. The token may still be
// valid upstream; cleanup is the caller's concern.
type RevocationError struct {
	Err error
}

func (e *RevocationError) Error() string {
	return fmt.Sprintf("revoking token: %v", e.Err)
}

func (e *RevocationError) Unwrap() error {
	return e.Err
}
