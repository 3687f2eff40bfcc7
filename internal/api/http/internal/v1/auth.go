package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rubbishit/backend/internal/service"
	"github.com/rubbishit/backend/pkg/logger"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	api.POST("/send-code", h.sendCode)
	api.POST("/register", h.register)
	api.POST("/login", h.login)
	api.POST("/logout", h.logout)
	api.GET("/me", h.me)
}

type sendCodeRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// @Summary Send verification code
// @Tags Auth
// @Description Issues a verification code and emails it to the address
// @ModuleID sendCode
// @Accept  json
// @Produce  json
// @Param input body sendCodeRequest true "email and desired username"
// @Success 200 {object} successResponse
// @Failure 400 {object} ErrorStruct
// @Failure 429 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /send-code [post]
func (h *Handler) sendCode(c *gin.Context) {
	var req sendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBodyResponse(c)
		return
	}

	input := service.SendCodeInput{Email: req.Email, Username: req.Username}
	if err := h.services.Verification.RequestCode(c.Request.Context(), input); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{
		Success: true,
		Message: fmt.Sprintf("verification code sent to %s, please check your inbox (valid for %d minutes)",
			normalizedEmail(req.Email), int(h.config.Auth.CodeTTL/time.Minute)),
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// @Summary Register
// @Tags Auth
// @Description Consumes a verification code, creates the account and starts a session
// @ModuleID register
// @Accept  json
// @Produce  json
// @Param input body registerRequest true "registration data"
// @Success 200 {object} successResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /register [post]
func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBodyResponse(c)
		return
	}

	account, err := h.services.Users.CompleteRegistration(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if err := startSession(c, account); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{
		Success:  true,
		Message:  "registration successful! welcome to Rubbishit Journal 🎉",
		Username: account.Username,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Login
// @Tags Auth
// @Description Checks the password of a verified account and starts a session
// @ModuleID login
// @Accept  json
// @Produce  json
// @Param input body loginRequest true "credentials"
// @Success 200 {object} successResponse
// @Failure 400 {object} ErrorStruct
// @Failure 401 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /login [post]
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBodyResponse(c)
		return
	}

	account, err := h.services.Users.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	if err := startSession(c, account); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse{
		Success:  true,
		Message:  fmt.Sprintf("welcome back, %s!", account.Username),
		Username: account.Username,
	})
}

// @Summary Logout
// @Tags Auth
// @Description Clears the session
// @ModuleID logout
// @Produce  json
// @Success 200 {object} successResponse
// @Router /logout [post]
func (h *Handler) logout(c *gin.Context) {
	if err := endSession(c, h.config.Session); err != nil {
		logger.Warn("clear session failed", zap.Error(err))
	}

	c.JSON(http.StatusOK, successResponse{Success: true})
}

// @Summary Current session
// @Tags Auth
// @Description Reports whether the caller is logged in
// @ModuleID me
// @Produce  json
// @Success 200 {object} sessionResponse
// @Failure 500 {object} ErrorStruct
// @Router /me [get]
func (h *Handler) me(c *gin.Context) {
	userID, ok := sessionUserID(c)
	if !ok {
		c.JSON(http.StatusOK, sessionResponse{LoggedIn: false})
		return
	}

	account, err := h.services.Users.GetOneByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusOK, sessionResponse{LoggedIn: false})
			return
		}
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, sessionResponse{
		LoggedIn: true,
		Username: account.Username,
		Email:    account.Email,
	})
}

func normalizedEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
