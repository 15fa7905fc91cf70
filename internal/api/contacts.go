package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/service"
)

func (a *API) submitContact(c *gin.Context) {
	var input service.ContactInput
	if !a.bindJSON(c, &input) {
		return
	}
	meta := models.ContactMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	contact, err := a.contacts.Create(c.Request.Context(), input, meta)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Your inquiry has been submitted successfully. We will get back to you soon.",
		"contact": contact,
	})
}

func (a *API) listContacts(c *gin.Context) {
	result, err := a.contacts.List(c.Request.Context(),
		c.Query("status"), queryInt64(c, "limit"), queryInt64(c, "skip"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) getContact(c *gin.Context) {
	contactID, ok := a.objectIDParam(c, "contactId")
	if !ok {
		return
	}
	contact, err := a.contacts.GetByID(c.Request.Context(), contactID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contact": contact})
}

func (a *API) updateContact(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	contactID, ok := a.objectIDParam(c, "contactId")
	if !ok {
		return
	}
	var input service.ContactUpdateInput
	if !a.bindJSON(c, &input) {
		return
	}
	contact, err := a.contacts.Update(c.Request.Context(), contactID, input, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact query updated successfully", "contact": contact})
}

func (a *API) deleteContact(c *gin.Context) {
	contactID, ok := a.objectIDParam(c, "contactId")
	if !ok {
		return
	}
	if err := a.contacts.Delete(c.Request.Context(), contactID); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact query deleted successfully"})
}
