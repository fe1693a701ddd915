package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"doe_backend/internal/service"
	"doe_backend/internal/util"
	"doe_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pathID 解析路径中的数字 id，非法时直接返回 400
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID 鉴权中间件之后调用
func currentUserID(ctx *gin.Context) uint {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func isAJAX(ctx *gin.Context) bool {
	return ctx.GetHeader("X-Requested-With") == "XMLHttpRequest"
}

// postForm 同时支持 urlencoded 与 multipart 表单
func postForm(ctx *gin.Context) map[string][]string {
	if err := ctx.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		_ = ctx.Request.ParseForm()
	}
	return ctx.Request.PostForm
}

func viewURL(challengeID uint) string {
	return fmt.Sprintf("/api/challenge/%d/view", challengeID)
}

// failureMessage 分类错误直接展示其文案，未分类错误只给出通用提示
func failureMessage(prefix string, err error) string {
	if util.StatusOf(err) == http.StatusInternalServerError {
		return prefix + "something went wrong, please try again later."
	}
	return prefix + err.Error()
}

// finishAction 表单提交的统一出口：AJAX 请求直接返回 JSON；
// 普通表单写入一次性提示后 303 跳转到挑战查看页。challengeID 为 0 时无处跳转，按 JSON 返回
func finishAction(ctx *gin.Context, flash *service.FlashService, challengeID uint, resp util.ActionResponse, err error, failPrefix string) {
	status := http.StatusOK
	if err != nil {
		status = util.StatusOf(err)
		if status == http.StatusInternalServerError {
			logger.Log.Error("Form action failed",
				zap.String("path", ctx.FullPath()),
				zap.Uint("challengeID", challengeID),
				zap.Error(err))
		}
		resp = util.ActionResponse{Success: false, Message: failureMessage(failPrefix, err)}
	}

	if isAJAX(ctx) || challengeID == 0 {
		ctx.JSON(status, resp)
		return
	}

	level := service.FlashSuccess
	if !resp.Success {
		level = service.FlashError
	}
	if resp.Message != "" {
		if ferr := flash.Push(ctx.Request.Context(), currentUserID(ctx), level, resp.Message); ferr != nil {
			logger.Log.Warn("Failed to store flash message", zap.Error(ferr))
		}
	}
	ctx.Redirect(http.StatusSeeOther, viewURL(challengeID))
}
