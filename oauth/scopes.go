package oauth

// ValidScopes is the fixed whitelist of permission scopes accepted by the
// authorization server. AddScopes rejects anything not listed here.
var ValidScopes = []string{
	"wallet:accounts:read",          // List user's accounts and their balances
	"wallet:accounts:update",        // Update account (e.g. change name)
	"wallet:accounts:create",        // Create a new account (e.g. BTC wallet)
	"wallet:accounts:delete",        // Delete existing account
	"wallet:addresses:read",         // List account's bitcoin or ethereum addresses
	"wallet:addresses:create",       // Create new bitcoin or ethereum addresses for wallets
	"wallet:buys:read",              // List account's buys
	"wallet:buys:create",            // Buy bitcoin or ethereum
	"wallet:deposits:read",          // List account's deposits
	"wallet:deposits:create",        // Create a new deposit
	"wallet:notifications:read",     // List user's notifications
	"wallet:payment-methods:read",   // List user's payment methods (e.g. bank accounts)
	"wallet:payment-methods:delete", // Remove existing payment methods
	"wallet:payment-methods:limits", // Get detailed limits for payment methods
	"wallet:sells:read",             // List account's sells
	"wallet:sells:create",           // Sell bitcoin or ethereum
	"wallet:transactions:read",      // List account's transactions
	"wallet:transactions:send",      // Send bitcoin or ethereum
	"wallet:transactions:request",   // Request bitcoin or ethereum from another user
	"wallet:transactions:transfer",  // Transfer funds between the user's own accounts
	"wallet:user:read",              // List detailed user information
	"wallet:user:update",            // Update current user
	"wallet:user:email",             // Read current user's email address
	"wallet:withdrawals:read",       // List account's withdrawals
	"wallet:withdrawals:create",     // Create a new withdrawal
}

var validScopeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(ValidScopes))
	for _, s := range ValidScopes {
		set[s] = struct{}{}
	}
	return set
}()

func isValidScope(scope string) bool {
	_, ok := validScopeSet[scope]
	return ok
}
