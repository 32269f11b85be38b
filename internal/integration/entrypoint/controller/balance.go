package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cashsplit/backend/internal/application/usecase/balance"
	"github.com/cashsplit/backend/internal/application/usecase/settlement"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/entrypoint/dto"
)

// BalanceController serves balances and records settlements.
type BalanceController struct {
	getBalancesUseCase      *balance.GetBalancesUseCase
	recordSettlementUseCase *settlement.RecordSettlementUseCase
}

// NewBalanceController creates a new balance controller instance.
func NewBalanceController(
	getBalancesUseCase *balance.GetBalancesUseCase,
	recordSettlementUseCase *settlement.RecordSettlementUseCase,
) *BalanceController {
	return &BalanceController{
		getBalancesUseCase:      getBalancesUseCase,
		recordSettlementUseCase: recordSettlementUseCase,
	}
}

// Get handles GET /groups/:id/balances requests.
func (c *BalanceController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}

	output, err := c.getBalancesUseCase.Execute(ctx.Request.Context(), balance.GetBalancesInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Summary.Version)
	ctx.JSON(http.StatusOK, dto.ToBalancesResponse(output.Summary, output.Members, userID))
}

// RecordSettlement handles POST /groups/:id/settlements requests.
func (c *BalanceController) RecordSettlement(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}

	var req dto.RecordSettlementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, string(domainerror.ErrCodeMissingExpenseFields), err)
		return
	}

	output, err := c.recordSettlementUseCase.Execute(ctx.Request.Context(), settlement.RecordSettlementInput{
		GroupID: groupID,
		UserID:  userID,
		PayeeID: req.PayeeID,
		Amount:  req.Amount,
		Version: version,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusCreated, dto.SettlementResponse{
		Settlement: dto.ToExpenseResponse(output.Settlement, nil),
		Version:    output.Version,
	})
}
