package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cashsplit/backend/internal/application/usecase/group"
	domainerror "github.com/cashsplit/backend/internal/domain/error"
	"github.com/cashsplit/backend/internal/integration/entrypoint/dto"
)

// GroupController handles group and membership endpoints.
type GroupController struct {
	createUseCase    *group.CreateGroupUseCase
	listUseCase      *group.ListGroupsUseCase
	getUseCase       *group.GetGroupUseCase
	addMemberUseCase *group.AddMemberUseCase
	leaveUseCase     *group.LeaveGroupUseCase
}

// NewGroupController creates a new group controller instance.
func NewGroupController(
	createUseCase *group.CreateGroupUseCase,
	listUseCase *group.ListGroupsUseCase,
	getUseCase *group.GetGroupUseCase,
	addMemberUseCase *group.AddMemberUseCase,
	leaveUseCase *group.LeaveGroupUseCase,
) *GroupController {
	return &GroupController{
		createUseCase:    createUseCase,
		listUseCase:      listUseCase,
		getUseCase:       getUseCase,
		addMemberUseCase: addMemberUseCase,
		leaveUseCase:     leaveUseCase,
	}
}

// Create handles POST /groups requests.
func (c *GroupController) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, string(domainerror.ErrCodeMissingGroupFields), err)
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), group.CreateGroupInput{
		Name:   req.Name,
		UserID: userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Group.Version)
	ctx.JSON(http.StatusCreated, dto.ToGroupResponse(output.Group, output.Members))
}

// List handles GET /groups requests.
func (c *GroupController) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), group.ListGroupsInput{
		UserID: userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToGroupListResponse(output.Groups))
}

// Get handles GET /groups/:id requests.
func (c *GroupController) Get(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	groupID, ok := pathUUID(ctx, "id", string(domainerror.ErrCodeInvalidGroupID))
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), group.GetGroupInput{
		GroupID: groupID,
		UserID:  userID,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Group.Version)
	ctx.JSON(http.StatusOK, dto.ToGroupDetailResponse(
		output.Group,
		output.UserRole,
		output.Members,
		output.InactiveMembers,
		output.Expenses,
	))
}

// AddMember handles POST /groups/:id/members requests.
func (c *GroupController) AddMember(ctx *gin.Context) {
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

	var req dto.AddMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, string(domainerror.ErrCodeInvalidGroupEmail), err)
		return
	}

	output, err := c.addMemberUseCase.Execute(ctx.Request.Context(), group.AddMemberInput{
		GroupID: groupID,
		UserID:  userID,
		Email:   req.Email,
		Version: version,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusCreated, dto.AddMemberResponse{
		Member:  dto.ToGroupMemberResponse(output.Member),
		Version: output.Version,
	})
}

// Leave handles POST /groups/:id/leave requests.
func (c *GroupController) Leave(ctx *gin.Context) {
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

	output, err := c.leaveUseCase.Execute(ctx.Request.Context(), group.LeaveGroupInput{
		GroupID: groupID,
		UserID:  userID,
		Version: version,
	})
	if err != nil {
		handleError(ctx, err)
		return
	}

	setVersion(ctx, output.Version)
	ctx.JSON(http.StatusOK, dto.VersionResponse{Version: output.Version})
}
