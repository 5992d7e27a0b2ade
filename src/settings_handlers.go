package main

import (
	"net/http"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"github.com/gin-gonic/gin"
)

func settingsHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/settings", func(ctx *gin.Context) {
			var body types.CreateSettingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			setting, err := utils.UpsertSetting(userId, &body)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": setting})
		}).
		GET("/settings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			settings, err := utils.GetOwnSettings(userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": settings})
		})
	return g
}
