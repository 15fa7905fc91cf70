package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
)

func (a *API) addressIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		a.fail(c, apperror.BadRequest("Invalid address index"))
		return 0, false
	}
	return index, true
}

func (a *API) listAddresses(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	addresses, err := a.addresses.List(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "addresses": addresses})
}

func (a *API) addAddress(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var input service.AddressInput
	if !a.bindJSON(c, &input) {
		return
	}
	addresses, err := a.addresses.Add(c.Request.Context(), user.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"addresses": addresses,
		"message":   "Address added successfully",
	})
}

func (a *API) updateAddress(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	index, ok := a.addressIndex(c)
	if !ok {
		return
	}
	var input service.AddressInput
	if !a.bindJSON(c, &input) {
		return
	}
	addresses, err := a.addresses.Update(c.Request.Context(), user.ID, index, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"addresses": addresses,
		"message":   "Address updated successfully",
	})
}

func (a *API) deleteAddress(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	index, ok := a.addressIndex(c)
	if !ok {
		return
	}
	addresses, err := a.addresses.Delete(c.Request.Context(), user.ID, index)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"addresses": addresses,
		"message":   "Address deleted successfully",
	})
}

func (a *API) setDefaultAddress(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	index, ok := a.addressIndex(c)
	if !ok {
		return
	}
	addresses, err := a.addresses.SetDefault(c.Request.Context(), user.ID, index)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"addresses": addresses,
		"message":   "Default address updated successfully",
	})
}
