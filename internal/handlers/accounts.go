package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vibe-service/internal/services"
	"vibe-service/internal/telemetry"
)

// AccountHandler serves signup, login and the current profile.
type AccountHandler struct {
	accounts *services.AccountService
	profiles services.ProfileLoader
	audit    *telemetry.AuditEmitter
}

func NewAccountHandler(accounts *services.AccountService, profiles services.ProfileLoader, audit *telemetry.AuditEmitter) *AccountHandler {
	return &AccountHandler{accounts: accounts, profiles: profiles, audit: audit}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Age      int    `json:"age" binding:"required"`
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	profile, token, err := h.accounts.Signup(c.Request.Context(), services.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Set("userID", profile.ID)
	audit(c, h.audit, "account.signup", profile.ID, "profile created")
	c.JSON(http.StatusCreated, gin.H{"token": token, "profile": profile})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	profile, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "profile": profile})
}

func (h *AccountHandler) Me(c *gin.Context) {
	session, ok := loadSession(c, h.profiles)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Profile)
}

type updateProfileRequest struct {
	Name string   `json:"name"`
	Bio  *string  `json:"bio"`
	Tags []string `json:"tags"`
}

func (h *AccountHandler) UpdateMe(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}
	session, ok := loadSession(c, h.profiles)
	if !ok {
		return
	}

	if err := h.accounts.UpdateProfile(c.Request.Context(), session, services.ProfileUpdate{
		Name: req.Name,
		Bio:  req.Bio,
		Tags: req.Tags,
	}); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Profile)
}

func (h *AccountHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar file is required", "code": "validation"})
		return
	}
	photo, err := readPhoto(fh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar", "code": "validation"})
		return
	}
	session, ok := loadSession(c, h.profiles)
	if !ok {
		return
	}

	url, err := h.accounts.SetAvatar(c.Request.Context(), session, photo)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
