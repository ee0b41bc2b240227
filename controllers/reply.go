package controllers

import (
	"github.com/gin-gonic/gin"
)

func replyWithError(ctx *gin.Context, errCode int, errMsg string) {
	ctx.JSON(200, struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}{
		ErrCode: errCode,
		ErrMsg:  errMsg,
	})
}
