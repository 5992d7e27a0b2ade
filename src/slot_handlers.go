package main

import (
	"log"
	"net/http"
	"tutorhub/src/db"
	"tutorhub/src/models"
	"tutorhub/src/types"
	"tutorhub/src/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// publicSlotHandlers covers browsing; no login needed to look at the catalog.
func publicSlotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/slots", func(ctx *gin.Context) {
			var filters types.SlotQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slots, err := utils.ListSlots(&filters)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slots, "count": len(slots)})
		}).
		GET("/slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			slot, err := utils.GetSlot(params.ID)
			if err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": slot})
		})
	return g
}

func slotHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/slots", func(ctx *gin.Context) {
			var body types.CreateSlotRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			teacherId := ctx.GetUint("id")
			slotId, err := utils.CreateNewSlot(&body, teacherId)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": gin.H{"id": slotId}})
		}).
		DELETE("/slots/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			teacherId := ctx.GetUint("id")
			gdb := db.GetDb()
			err := gdb.Transaction(func(tx *gorm.DB) error {
				var slot models.AvailabilitySlot
				if err := tx.Where(&models.AvailabilitySlot{ID: params.ID, TeacherID: teacherId}).First(&slot).Error; err != nil {
					return err
				}
				if slot.IsBooked {
					return types.ErrSlotUnavailable
				}
				return tx.
					Model(&models.AvailabilitySlot{}).
					Where(&models.AvailabilitySlot{ID: params.ID}).
					Update("is_available", false).
					Error
			})
			if err != nil {
				log.Printf("Error withdrawing slot %d: %s\n", params.ID, err.Error())
				status, msg := statusForError(err)
				ctx.JSON(status, gin.H{"error": msg})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
