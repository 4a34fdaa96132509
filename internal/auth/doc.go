// Package auth provides the stateless authentication and authorization
// gateway for the portfolio API.
//
// # Bearer Tokens
//
// Clients authenticate with HS256-signed JWTs carrying sub, role, iat, and
// exp claims. Tokens are issued at login by Codec.Issue and verified per
// request by Codec.Verify. Verification is stateless: the role rides inside
// the token, so role changes only take effect once outstanding tokens expire.
// Every verification failure collapses to ErrInvalidToken.
//
// # Request Pipeline
//
// Two middlewares cooperate:
//
//   - Middleware (the gateway) extracts and verifies the bearer token and
//     attaches an Identity to the request context. It never rejects; a bad
//     or missing token simply leaves the request anonymous.
//
//   - Policy.Middleware evaluates the ordered rule table against the request
//     method, path, and identity state and answers with 401, 403, or passes
//     the request through. Unmatched paths require an identity.
//
// Handlers read the caller's identity with FromContext.
//
// # Passwords
//
// Credentials are stored as bcrypt hashes via HashPassword/CheckPassword.
package auth
