package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/entrypoint/dto"
	"github.com/cashsplit/backend/internal/integration/entrypoint/middleware"
)

// handleError maps domain errors to HTTP responses.
func handleError(ctx *gin.Context, err error) {
	var (
		authErr    *domainerror.AuthError
		groupErr   *domainerror.GroupError
		expenseErr *domainerror.ExpenseError
		ledgerErr  *domainerror.LedgerError
	)

	switch {
	case errors.As(err, &ledgerErr):
		if ledgerErr.Code == domainerror.ErrCodeConcurrentModification {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{
				Error: ledgerErr.Message,
				Code:  string(ledgerErr.Code),
			})
			return
		}
		// Details were logged with the balance snapshot where the error was raised.
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "internal server error",
			Code:  string(ledgerErr.Code),
		})
	case errors.As(err, &expenseErr):
		ctx.JSON(statusForCode(string(expenseErr.Code)), dto.ErrorResponse{
			Error: expenseErr.Message,
			Code:  string(expenseErr.Code),
		})
	case errors.As(err, &groupErr):
		ctx.JSON(statusForCode(string(groupErr.Code)), dto.ErrorResponse{
			Error: groupErr.Message,
			Code:  string(groupErr.Code),
		})
	case errors.As(err, &authErr):
		ctx.JSON(statusForAuthError(authErr.Code), dto.ErrorResponse{
			Error: authErr.Message,
			Code:  string(authErr.Code),
		})
	default:
		slog.Error("Unhandled request error",
			"path", ctx.FullPath(),
			"error", err,
		)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "An internal error occurred",
		})
	}
}

// statusForCode maps the category part of a PREFIX-XXYYYY code.
func statusForCode(code string) int {
	_, rest, found := strings.Cut(code, "-")
	if !found || len(rest) < 2 {
		return http.StatusInternalServerError
	}

	switch rest[:2] {
	case "01":
		return http.StatusBadRequest
	case "02":
		return http.StatusNotFound
	case "03":
		return http.StatusForbidden
	case "04":
		return http.StatusConflict
	case "05":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// statusForAuthError maps auth error codes to HTTP status codes.
func statusForAuthError(code domainerror.AuthErrorCode) int {
	switch code {
	case domainerror.ErrCodeEmailExists:
		return http.StatusConflict
	case domainerror.ErrCodeWeakPassword,
		domainerror.ErrCodeInvalidEmail,
		domainerror.ErrCodeMissingFields,
		domainerror.ErrCodeInvalidUPIID,
		domainerror.ErrCodeInvalidName:
		return http.StatusBadRequest
	case domainerror.ErrCodeInvalidCredentials,
		domainerror.ErrCodeUserNotFound,
		domainerror.ErrCodeInvalidToken,
		domainerror.ErrCodeExpiredToken,
		domainerror.ErrCodeMissingToken:
		return http.StatusUnauthorized
	case domainerror.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// bindError responds to a request body that failed to bind.
func bindError(ctx *gin.Context, code string, err error) {
	ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "Invalid request body",
		Code:    code,
		Details: middleware.DescribeBindingError(err),
	})
}

// requireUser reads the authenticated user, answering 401 when it is missing.
func requireUser(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error: "User not authenticated",
			Code:  string(domainerror.ErrCodeMissingToken),
		})
		return uuid.Nil, false
	}
	return userID, true
}

// pathUUID parses a uuid path parameter, answering 400 when it is malformed.
func pathUUID(ctx *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid " + name + " format",
			Code:  code,
		})
		return uuid.Nil, false
	}
	return id, true
}

// expectedVersion reads the optional If-Match header. Zero means the
// caller did not pin a version. Both 3 and "3" (ETag form) are accepted.
func expectedVersion(ctx *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(ctx.GetHeader("If-Match"))
	if raw == "" {
		return 0, true
	}
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)

	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || version < 1 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "If-Match must carry a group version",
			Code:  string(domainerror.ErrCodeInvalidVersion),
		})
		return 0, false
	}
	return version, true
}

// setVersion exposes the group version as an ETag.
func setVersion(ctx *gin.Context, version int64) {
	ctx.Header("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}
