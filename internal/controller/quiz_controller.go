package controller

import (
	"doe_backend/internal/service"
	"doe_backend/internal/util"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// Question godoc
// @Summary 获取题目
// @Description 题号从 1 开始，按题目创建顺序
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Param num path int true "题号"
// @Success 200 {object} util.Response{data=service.QuestionView}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/{id}/questions/{num} [get]
func (c *QuizController) Question(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	num, err := strconv.Atoi(ctx.Param("num"))
	if err != nil {
		util.BadRequest(ctx, "Invalid question number")
		return
	}
	view, err := c.QuizService.Question(ctx.Request.Context(), id, num)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Submit godoc
// @Summary 提交测验答案
// @Description answers 以题号为键，多选答案用逗号分隔
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.QuizSubmission true "答案"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /quizzes/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	var req service.QuizSubmission
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing quiz_id or answers")
		return
	}
	if err := c.QuizService.Submit(ctx.Request.Context(), currentUserID(ctx), req); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"status":       "success",
		"redirect_url": fmt.Sprintf("/api/quizzes/%d/results", req.QuizID),
	})
}

// Results godoc
// @Summary 测验结果
// @Description 首次查看时发放答对题目的积分
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 404 {object} util.Response
// @Router /quizzes/{id}/results [get]
func (c *QuizController) Results(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	res, err := c.QuizService.Results(ctx.Request.Context(), currentUserID(ctx), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, res)
}
