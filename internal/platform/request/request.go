// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/internal/platform/sec"
	"github.com/taibuivan/plume/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Int64Param parses a named numeric URL parameter.

Returns:
  - int64: The positive identifier
  - error: apperr.ValidationError if the parameter is absent or not a positive integer
*/
func Int64Param(request *http.Request, name string) (int64, error) {
	raw := chi.URLParam(request, name)

	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, validate.RequiredError(name, "Must be a positive integer")
	}

	return value, nil
}

/*
Principal returns the resolved principal for the request.

Anonymous requests resolve to [sec.Anonymous], never nil.
*/
func Principal(request *http.Request) *sec.Principal {
	return ctxutil.GetPrincipal(request.Context())
}

/*
RequiredPrincipal ensures the request is authenticated and returns its principal.

Returns:
  - *sec.Principal: The authenticated principal
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	// Get the principal attached by the Authenticate middleware
	principal := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if principal.IsAnonymous() {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return principal, nil
}
