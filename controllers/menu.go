package controllers

import (
	"errors"
	"net/http"

	"bayorder-backend/models"
	"bayorder-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MenuController serves the two menu slots. Both endpoints are
// unauthenticated reads: preview backs the admin review page, and
// production backs the customer ordering page.
type MenuController struct {
	DB *gorm.DB
}

func (mc *MenuController) Preview(c *gin.Context) {
	mc.serveSlot(c, models.SlotStaging, "Preview menu not found. Run sync first.")
}

func (mc *MenuController) Production(c *gin.Context) {
	mc.serveSlot(c, models.SlotProduction, "Production menu not found.")
}

func (mc *MenuController) serveSlot(c *gin.Context, slot, missingMessage string) {
	var doc models.MenuDocument
	err := mc.DB.First(&doc, "slot = ?", slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, missingMessage)
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	beach := doc.BeachDrinks
	if beach == nil {
		beach = models.MenuItems{}
	}
	room := doc.RoomService
	if room == nil {
		room = models.MenuItems{}
	}

	c.JSON(http.StatusOK, gin.H{
		"beachDrinks": beach,
		"roomService": room,
	})
}
