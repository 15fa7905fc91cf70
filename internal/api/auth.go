package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
)

const refreshCookieMaxAge = 30 * 24 * 60 * 60

func (a *API) requestContext(c *gin.Context) service.RequestContext {
	return service.RequestContext{
		UserAgent: c.GetHeader("User-Agent"),
		IPAddress: c.ClientIP(),
	}
}

func (a *API) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("refreshToken", token, refreshCookieMaxAge, "/", "", a.cfg.IsProduction(), true)
}

func (a *API) registerCustomer(c *gin.Context) {
	var input service.RegisterCustomerInput
	if !a.bindJSON(c, &input) {
		return
	}
	user, err := a.auth.RegisterCustomer(c.Request.Context(), input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (a *API) registerVendor(c *gin.Context) {
	var input service.RegisterVendorInput
	if !a.bindJSON(c, &input) {
		return
	}
	var existingID *primitive.ObjectID
	if user, ok := middleware.CurrentUser(c); ok {
		existingID = &user.ID
	}
	user, err := a.auth.RegisterVendor(c.Request.Context(), input, existingID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

func (a *API) login(c *gin.Context) {
	var input service.LoginInput
	if !a.bindJSON(c, &input) {
		return
	}
	user, tokens, err := a.auth.Login(c.Request.Context(), input, a.requestContext(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	a.setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": tokens.AccessToken, "user": user})
}

// refreshToken reads the rotation token from the cookie, falling back to the
// request body for non-browser clients.
func (a *API) refresh(c *gin.Context) {
	token, _ := c.Cookie("refreshToken")
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			token = body.RefreshToken
		}
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Refresh token missing"})
		return
	}

	user, tokens, err := a.auth.Refresh(c.Request.Context(), token, a.requestContext(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	a.setRefreshCookie(c, tokens.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"accessToken": tokens.AccessToken, "user": user})
}

func (a *API) logout(c *gin.Context) {
	token, _ := c.Cookie("refreshToken")
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			token = body.RefreshToken
		}
	}
	if token != "" {
		a.auth.Logout(c.Request.Context(), token)
	}
	c.SetCookie("refreshToken", "", -1, "/", "", a.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (a *API) forgotPassword(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !a.bindJSON(c, &body) {
		return
	}
	if err := a.auth.RequestPasswordReset(c.Request.Context(), body.Email); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, password reset instructions have been sent."})
}

func (a *API) resetPassword(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if !a.bindJSON(c, &body) {
		return
	}
	if err := a.auth.ResetPassword(c.Request.Context(), body.Email, body.Token, body.Password); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successful"})
}

func (a *API) changePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var body struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if !a.bindJSON(c, &body) {
		return
	}
	if err := a.auth.ChangePassword(c.Request.Context(), user.ID, body.CurrentPassword, body.NewPassword); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (a *API) profile(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (a *API) vendorApplicationStatus(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	application, err := a.auth.VendorApplicationStatus(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": application})
}

func (a *API) approveVendor(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	vendorID, ok := a.objectIDParam(c, "vendorId")
	if !ok {
		return
	}
	if _, err := a.vendors.Approve(c.Request.Context(), vendorID, admin.ID); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor approved"})
}

func (a *API) rejectVendor(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	vendorID, ok := a.objectIDParam(c, "vendorId")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)
	if _, err := a.vendors.Reject(c.Request.Context(), vendorID, admin.ID, body.Reason); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor rejected"})
}
