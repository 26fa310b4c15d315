package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"drtc/licensing/internal/access"
	"drtc/licensing/internal/middleware"
	"drtc/licensing/internal/models"
	"drtc/licensing/internal/services"
)

type AuthorizationController struct {
	auths *services.AuthorizationService
}

func NewAuthorizationController(auths *services.AuthorizationService) *AuthorizationController {
	return &AuthorizationController{auths: auths}
}

type noteBody struct {
	Note string `json:"note"`
}

// GetRequest retrieves an authorization request by ID.
func (ctl *AuthorizationController) GetRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	request, err := ctl.auths.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// ListRequests lists requests, optionally filtered by ?state.
func (ctl *AuthorizationController) ListRequests(c *gin.Context) {
	state := models.RequestState(c.Query("state"))
	requests, err := ctl.auths.List(state)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// GetRequestLog returns a request's transition log.
func (ctl *AuthorizationController) GetRequestLog(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entries, err := ctl.auths.Log(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// ReviewRequest takes a requested authorization into review.
func (ctl *AuthorizationController) ReviewRequest(c *gin.Context) {
	ctl.simpleTransition(c, ctl.auths.Review)
}

// ApproveRequest approves a reviewed authorization.
func (ctl *AuthorizationController) ApproveRequest(c *gin.Context) {
	ctl.simpleTransition(c, ctl.auths.Approve)
}

// ObserveRequest sends a request back with observations.
func (ctl *AuthorizationController) ObserveRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := ctl.auths.Observe(middleware.MustActor(c), id, body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// ResubmitRequest puts an observed request back in the queue.
func (ctl *AuthorizationController) ResubmitRequest(c *gin.Context) {
	ctl.simpleTransition(c, ctl.auths.Resubmit)
}

// EnableRequest issues the authorization once payment is confirmed.
func (ctl *AuthorizationController) EnableRequest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		ValidUntil time.Time `json:"valid_until" binding:"required"`
		Note       string    `json:"note"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := ctl.auths.Enable(middleware.MustActor(c), id, body.ValidUntil, body.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

// SuspendRequest suspends an enabled authorization.
func (ctl *AuthorizationController) SuspendRequest(c *gin.Context) {
	ctl.justifiedTransition(c, ctl.auths.Suspend)
}

// ReinstateRequest lifts a suspension.
func (ctl *AuthorizationController) ReinstateRequest(c *gin.Context) {
	ctl.simpleTransition(c, ctl.auths.Reinstate)
}

// RevokeRequest permanently revokes an authorization.
func (ctl *AuthorizationController) RevokeRequest(c *gin.Context) {
	ctl.justifiedTransition(c, ctl.auths.Revoke)
}

func (ctl *AuthorizationController) simpleTransition(c *gin.Context, fn func(actor access.Actor, id uint, note string) (*models.AuthorizationRequest, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body noteBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	request, err := fn(middleware.MustActor(c), id, body.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}

func (ctl *AuthorizationController) justifiedTransition(c *gin.Context, fn func(actor access.Actor, id uint, justification string) (*models.AuthorizationRequest, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var body struct {
		Justification string `json:"justification" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := fn(middleware.MustActor(c), id, body.Justification)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": request})
}
