package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cashsplit/backend/internal/application/usecase/profile"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/entrypoint/dto"
)

// ProfileController handles the current user's profile and suggestions.
type ProfileController struct {
	getUseCase         *profile.GetProfileUseCase
	updateUseCase      *profile.UpdateProfileUseCase
	suggestionsUseCase *profile.ListSuggestionsUseCase
}

// NewProfileController creates a new profile controller instance.
func NewProfileController(
	getUseCase *profile.GetProfileUseCase,
	updateUseCase *profile.UpdateProfileUseCase,
	suggestionsUseCase *profile.ListSuggestionsUseCase,
) *ProfileController {
	return &ProfileController{
		getUseCase:         getUseCase,
		updateUseCase:      updateUseCase,
		suggestionsUseCase: suggestionsUseCase,
	}
}

// Get handles GET /profile requests.
func (c *ProfileController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	user, err := c.getUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Update handles PUT /profile requests.
func (c *ProfileController) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, string(domainerror.ErrCodeMissingFields), err)
		return
	}

	user, err := c.updateUseCase.Execute(ctx.Request.Context(), profile.UpdateProfileInput{
		UserID: userID,
		Name:   req.Name,
		Phone:  req.Phone,
		UPIID:  req.UPIID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// Suggestions handles GET /users/suggestions requests.
func (c *ProfileController) Suggestions(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	users, err := c.suggestionsUseCase.Execute(ctx.Request.Context(), userID)
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSuggestionListResponse(users))
}
