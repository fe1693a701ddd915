package controller

import (
	"doe_backend/internal/service"
	"doe_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	ChallengeService *service.ChallengeService
	Lifecycle        *service.ChallengeAttemptService
	FlashService     *service.FlashService
}

func NewAttemptController(challengeService *service.ChallengeService, lifecycle *service.ChallengeAttemptService, flashService *service.FlashService) *AttemptController {
	return &AttemptController{
		ChallengeService: challengeService,
		Lifecycle:        lifecycle,
		FlashService:     flashService,
	}
}

// Edit godoc
// @Summary 编辑提交表单
// @Description 返回提交所属挑战的字段，附带当前答案，仅提交者可访问
// @Tags 挑战提交
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Success 200 {object} util.Response{data=service.ChallengeForm}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /attempt/{id}/edit [get]
func (c *AttemptController) Edit(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	form, err := c.ChallengeService.EditForm(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, form)
}

// Update godoc
// @Summary 更新提交
// @Description 只覆盖提供了 field_{elementId} 的字段，其余答案不变
// @Tags 挑战提交
// @Accept x-www-form-urlencoded
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "提交ID"
// @Success 200 {object} util.ActionResponse
// @Success 303 "非 AJAX 请求跳转到查看页"
// @Failure 403 {object} util.ActionResponse
// @Failure 404 {object} util.ActionResponse
// @Router /attempt/{id}/update [post]
func (c *AttemptController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	answers := util.FieldAnswers(postForm(ctx), util.ChallengeFieldPrefix)
	userID := currentUserID(ctx)

	var challengeID uint
	_, choice, err := c.Lifecycle.Owner(ctx.Request.Context(), userID, id)
	if err == nil {
		challengeID = choice.ChallengeID
		err = c.Lifecycle.UpdateAttempt(ctx.Request.Context(), userID, id, answers)
	}
	finishAction(ctx, c.FlashService, challengeID, util.ActionResponse{Success: true, Message: "Changes saved!"}, err, "Error: ")
}

func (c *AttemptController) toggle(ctx *gin.Context, done bool) {
	id, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}
	if err := c.Lifecycle.ToggleDone(ctx.Request.Context(), currentUserID(ctx), id, done); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id, "isDone": done})
}

// MarkDone godoc
// @Summary 标记完成
// @Tags 挑战提交
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "提交ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /mark_done/{attemptId} [post]
func (c *AttemptController) MarkDone(ctx *gin.Context) {
	c.toggle(ctx, true)
}

// MarkUndone godoc
// @Summary 取消完成标记
// @Tags 挑战提交
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "提交ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /mark_undone/{attemptId} [post]
func (c *AttemptController) MarkUndone(ctx *gin.Context) {
	c.toggle(ctx, false)
}

// Delete godoc
// @Summary 删除提交
// @Description 物理删除提交及其全部答案
// @Tags 挑战提交
// @Produce json
// @Security ApiKeyAuth
// @Param attemptId path int true "提交ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /delete_attempt/{attemptId} [post]
func (c *AttemptController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "attemptId")
	if !ok {
		return
	}
	if err := c.Lifecycle.DeleteAttempt(ctx.Request.Context(), currentUserID(ctx), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "deleted"})
}

// SaveStatusesRequest 批量保存提交状态
type SaveStatusesRequest struct {
	Attempts []service.AttemptStatus `json:"attempts" binding:"dive"`
}

// SaveStatuses godoc
// @Summary 批量保存提交状态
// @Description cancel_edit_delete 为 true 的项会复制为新提交（原提交保留），其余只更新完成状态
// @Tags 挑战提交
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SaveStatusesRequest true "提交状态"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /save_attempts_status [post]
func (c *AttemptController) SaveStatuses(ctx *gin.Context) {
	var req SaveStatusesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err := c.Lifecycle.SaveStatuses(ctx.Request.Context(), currentUserID(ctx), req.Attempts); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "ok"})
}
