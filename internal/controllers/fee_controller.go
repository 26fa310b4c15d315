package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/services"
)

type FeeController struct {
	fees *services.FeeService
}

func NewFeeController(fees *services.FeeService) *FeeController {
	return &FeeController{fees: fees}
}

// CreateFeeEntry adds an entry to the fee schedule.
func (ctl *FeeController) CreateFeeEntry(c *gin.Context) {
	var input models.FeeScheduleEntry
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := ctl.fees.CreateEntry(middleware.MustActor(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fee_entry": entry})
}

// ListFeeEntries lists active fee schedule entries.
func (ctl *FeeController) ListFeeEntries(c *gin.Context) {
	entries, err := ctl.fees.ListActive()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// QuoteFee returns the fee currently in force for ?code (default the
// driver authorization procedure).
func (ctl *FeeController) QuoteFee(c *gin.Context) {
	code := c.DefaultQuery("code", services.DefaultFeeCode)
	entry, err := ctl.fees.Quote(code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_entry": entry})
}
