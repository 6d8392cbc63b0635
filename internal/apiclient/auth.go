package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"disasterprep/internal/models"
)

// Login exchanges credentials for a bearer token. Rejected credentials
// yield an error matching ErrAuthentication. The token is not installed;
// the caller decides whether to keep the session.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   creds,
		out:    &resp,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (IsAuthStatus(apiErr.StatusCode) || apiErr.StatusCode == http.StatusBadRequest) {
			return nil, fmt.Errorf("%w: %s", ErrAuthentication, apiErr.Detail)
		}
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: server returned no access token", ErrAuthentication)
	}
	return &resp, nil
}

// Me returns the user the current token belongs to
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account (admin only)
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}
