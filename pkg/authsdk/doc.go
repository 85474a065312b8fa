/*
Package authsdk provides a client SDK for the OrderCraft authentication service.

# Overview

The authsdk package wraps the auth service HTTP API: account registration,
login, refresh-token management and the internal authorization endpoint.
It is used by sibling services that need to call auth, and by the end-to-end
test suite.

Create a Client and call the operations directly:

	client := authsdk.NewClient("https://auth.example.com")

	// Register an account
	err := client.Register(ctx, "alice@example.com", "password")

	// Log in to obtain a token pair
	tokens, err := client.Login(ctx, "alice@example.com", "password")

	// Mint a fresh access token later
	tokens, err = client.RefreshAccessToken(ctx, tokens.RefreshToken)

	// Log the session out
	err = client.Logout(ctx, tokens.RefreshToken)

# Error Handling

Failed requests return an *APIError carrying the HTTP status code and the
machine-readable error code from the response body:

	tokens, err := client.Login(ctx, email, password)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeInvalidCredentials {
		// wrong email or password
	}

# Thread Safety

Client holds no mutable state beyond its http.Client and is safe for
concurrent use.
*/
package authsdk
