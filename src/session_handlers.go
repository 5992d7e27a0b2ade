package main

import (
	"context"
	"fmt"
	"net/http"
	"tutorhub/src/lib"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"github.com/gin-gonic/gin"
)

func sessionHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/sessions", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			sessions, err := utils.GetSessionsForUser(userId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": sessions, "count": len(sessions)})
		}).
		GET("/sessions/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			session, err := utils.GetSession(params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if session.StudentID != userId && session.TeacherID != userId {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": session})
		}).
		GET("/sessions/:id/join-asset", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			session, err := utils.GetSession(params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if session.StudentID != userId && session.TeacherID != userId {
				ctx.Status(http.StatusNotFound)
				return
			}
			rd := lib.GetRedisClient()
			if rd == nil {
				ctx.Status(http.StatusServiceUnavailable)
				return
			}
			url, err := rd.Get(context.Background(), fmt.Sprintf("session_%d_join", params.ID)).Result()
			if err != nil || url == "" {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Redirect(http.StatusFound, url)
		}).
		PUT("/sessions/:id/start", sessionTransitionHandler(utils.StartSession)).
		PUT("/sessions/:id/complete", sessionTransitionHandler(utils.CompleteSession)).
		PUT("/sessions/:id/cancel", sessionTransitionHandler(utils.CancelSession)).
		PUT("/sessions/:id/no-show", sessionTransitionHandler(utils.MarkSessionNoShow)).
		POST("/sessions/:id/rate", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.RateSessionRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.RateSession(params.ID, userId, body.Rating); err != nil {
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			ctx.Status(http.StatusOK)
		})
	return g
}

func sessionTransitionHandler(op func(sessionId uint, actorId uint) error) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var params types.SimpleRequestParams
		if err := ctx.ShouldBindUri(&params); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		userId := ctx.GetUint("id")
		if err := op(params.ID, userId); err != nil {
			status, msg := statusForError(err)
			ctx.JSON(status, gin.H{"error": msg})
			return
		}
		ctx.Status(http.StatusOK)
	}
}
