package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/services"
)

type CompanyController struct {
	companies *services.CompanyService
}

func NewCompanyController(companies *services.CompanyService) *CompanyController {
	return &CompanyController{companies: companies}
}

// CreateCompany registers a new transport operator.
func (ctl *CompanyController) CreateCompany(c *gin.Context) {
	var input models.Company
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	company, err := ctl.companies.Create(middleware.MustActor(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// GetCompany retrieves a company by ID.
func (ctl *CompanyController) GetCompany(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	company, err := ctl.companies.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

// ListCompanies lists all companies.
func (ctl *CompanyController) ListCompanies(c *gin.Context) {
	companies, err := ctl.companies.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": companies})
}

// DeactivateCompany disables a company.
func (ctl *CompanyController) DeactivateCompany(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	company, err := ctl.companies.Deactivate(middleware.MustActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}
