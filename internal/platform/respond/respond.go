// Copyright (c) 2026 Plume. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes the two JSON shapes the Plume API emits.

Successes are {"data": ...}, with a "meta" page block on list routes.
Failures are {"error", "code", "details"} built from an [apperr.AppError].
*/
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/plume/internal/platform/apperr"
	"github.com/taibuivan/plume/internal/platform/ctxutil"
	"github.com/taibuivan/plume/pkg/pagination"
)

// SuccessEnvelope wraps a single resource or an unpaged list.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// PaginatedEnvelope wraps one page of blogs or subscribers.
type PaginatedEnvelope struct {
	Data any             `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// JSON writes payload with status.
func JSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

func Created(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

func Paginated(writer http.ResponseWriter, data any, meta pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: meta})
}

func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

/*
Error writes err as an error envelope.

Errors outside the apperr taxonomy become INTERNAL_ERROR. Every 5xx is logged
with its cause; the client only sees the generic message.
*/
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		context := request.Context()
		ctxutil.GetLogger(context).ErrorContext(context, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(context)),
			slog.Any("cause", appError.Cause),
		)
	}

	// AppError's own JSON tags match the error envelope.
	JSON(writer, appError.HTTPStatus, appError)
}
