package main

import (
	"net/http"
	"tutorhub/src/utils"

	"github.com/gin-gonic/gin"
)

func notificationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/notifications", func(ctx *gin.Context) {
		userId := ctx.GetUint("id")
		notifications, err := utils.GetOwnNotifications(userId)
		if err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": notifications, "count": len(notifications)})
	})
	return g
}
