// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/taibuivan/plume/internal/platform/sec"
)

// MePath is the endpoint that echoes the principal behind a bearer token.
const MePath = "/api/v1/auth/me"

// SessionClient resolves the signed-in user against the Plume API.
type SessionClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSessionClient builds a client for the API at baseURL.
func NewSessionClient(baseURL string, httpClient *http.Client) *SessionClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &SessionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type meEnvelope struct {
	Data *sec.Principal `json:"data"`
}

/*
CurrentUser asks the API who owns accessToken.

Returns:
  - *sec.Principal: nil when there is no token or the API answers 401
  - error: transport failures and unexpected statuses
*/
func (client *SessionClient) CurrentUser(context context.Context, accessToken string) (*sec.Principal, error) {
	if accessToken == "" {
		return nil, nil
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, client.baseURL+MePath, nil)
	if err != nil {
		return nil, fmt.Errorf("guard: build session request: %w", err)
	}
	request.Header.Set("Authorization", "Bearer "+accessToken)
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("guard: fetch session: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, nil
	default:
		return nil, fmt.Errorf("guard: fetch session: unexpected status %d", response.StatusCode)
	}

	var envelope meEnvelope
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("guard: decode session: %w", err)
	}
	if envelope.Data.IsAnonymous() {
		return nil, nil
	}
	envelope.Data.Role = sec.ParseRole(string(envelope.Data.Role))

	return envelope.Data, nil
}

// ResolveState builds the settled guard state for requestPath. A transport
// failure is reported and the state is left signed out.
func (client *SessionClient) ResolveState(context context.Context, accessToken, requestPath string) (State, error) {
	user, err := client.CurrentUser(context, accessToken)
	return State{User: user, Path: requestPath}, err
}
