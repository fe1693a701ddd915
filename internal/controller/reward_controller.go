package controller

import (
	"doe_backend/internal/service"
	"doe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RewardController struct {
	RewardService *service.RewardService
	InviteService *service.InviteService
}

func NewRewardController(rewardService *service.RewardService, inviteService *service.InviteService) *RewardController {
	return &RewardController{RewardService: rewardService, InviteService: inviteService}
}

// List godoc
// @Summary 奖励列表
// @Tags 奖励
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Reward}
// @Router /rewards [get]
func (c *RewardController) List(ctx *gin.Context) {
	rewards, err := c.RewardService.List(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, rewards)
}

type RedeemRequest struct {
	RewardID uint `json:"selected_reward" form:"selected_reward" binding:"required"`
}

// Redeem godoc
// @Summary 兑换奖励
// @Description 积分不足返回 400；通知邮件发送失败不影响兑换结果
// @Tags 奖励
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body RedeemRequest true "奖励"
// @Success 200 {object} util.Response{data=service.RedeemResult}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /rewards/redeem [post]
func (c *RewardController) Redeem(ctx *gin.Context) {
	var req RedeemRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, "Please select a reward")
		return
	}
	res, err := c.RewardService.Redeem(ctx.Request.Context(), currentUserID(ctx), req.RewardID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}

// Invite godoc
// @Summary 邀请好友
// @Description 对方已注册时只返回提示；邮件发送失败返回 502
// @Tags 奖励
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.InviteRequest true "被邀请人"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /invites [post]
func (c *RewardController) Invite(ctx *gin.Context) {
	var req service.InviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing fields")
		return
	}
	message, err := c.InviteService.Invite(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": message})
}
