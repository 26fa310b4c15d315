package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/services"
)

type DriverController struct {
	drivers *services.DriverService
}

func NewDriverController(drivers *services.DriverService) *DriverController {
	return &DriverController{drivers: drivers}
}

// RegisterDriver creates a driver together with its first authorization
// request.
func (ctl *DriverController) RegisterDriver(c *gin.Context) {
	var body struct {
		NationalID        string     `json:"national_id" binding:"required"`
		FirstName         string     `json:"first_name" binding:"required"`
		LastName          string     `json:"last_name" binding:"required"`
		Phone             string     `json:"phone"`
		Email             string     `json:"email"`
		CompanyID         uint       `json:"company_id" binding:"required"`
		LicenseNumber     string     `json:"license_number" binding:"required"`
		LicenseCategory   string     `json:"license_category" binding:"required"`
		LicenseExpiry     time.Time  `json:"license_expiry" binding:"required"`
		MedicalCertNumber string     `json:"medical_cert_number"`
		MedicalCertExpiry *time.Time `json:"medical_cert_expiry"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, request, err := ctl.drivers.Register(middleware.MustActor(c), services.RegisterDriverInput{
		NationalID:        body.NationalID,
		FirstName:         body.FirstName,
		LastName:          body.LastName,
		Phone:             body.Phone,
		Email:             body.Email,
		CompanyID:         body.CompanyID,
		LicenseNumber:     body.LicenseNumber,
		LicenseCategory:   body.LicenseCategory,
		LicenseExpiry:     body.LicenseExpiry,
		MedicalCertNumber: body.MedicalCertNumber,
		MedicalCertExpiry: body.MedicalCertExpiry,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"driver": driver, "request": request})
}

// GetDriver retrieves a driver by ID.
func (ctl *DriverController) GetDriver(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	driver, err := ctl.drivers.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"driver": driver})
}

// ListDrivers lists drivers visible to the caller.
func (ctl *DriverController) ListDrivers(c *gin.Context) {
	drivers, err := ctl.drivers.List(middleware.MustActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// ListExpiringDrivers lists drivers whose license or medical certificate
// expires within ?days (default 30).
func (ctl *DriverController) ListExpiringDrivers(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	drivers, err := ctl.drivers.ListExpiring(days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": drivers})
}

// GetDriverLog returns the driver's state-change log.
func (ctl *DriverController) GetDriverLog(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entries, err := ctl.drivers.Log(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
