package main

import (
	"fmt"
	"net/http"
	"tutorhub/src/db"
	"tutorhub/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type createCourseRequestBody struct {
	Title   string  `json:"title" binding:"required"`
	Subject string  `json:"subject" binding:"required"`
	About   *string `json:"about,omitempty"`
}

func publicCourseHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.GET("/courses", func(ctx *gin.Context) {
		gdb := db.GetDb()
		var courses []models.Course
		if err := gdb.Find(&courses).Error; err != nil {
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"data": courses, "count": len(courses)})
	})
	return g
}

func courseHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/courses", func(ctx *gin.Context) {
			var body createCourseRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			teacherId := ctx.GetUint("id")
			gdb := db.GetDb()
			var course models.Course
			err := gdb.Transaction(func(tx *gorm.DB) error {
				course = models.Course{
					TeacherID: teacherId,
					Title:     body.Title,
					Subject:   body.Subject,
					About:     body.About,
				}
				if err := tx.Create(&course).Error; err != nil {
					return err
				}
				// Slug carries the row id so two teachers can share a title.
				s := slug.Make(fmt.Sprintf("%s-%d", body.Title, course.ID))
				if err := tx.
					Model(&models.Course{}).
					Where(&models.Course{ID: course.ID}).
					Update("slug", s).
					Error; err != nil {
					return err
				}
				course.Slug = s
				return nil
			})
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": course})
		})
	return g
}
