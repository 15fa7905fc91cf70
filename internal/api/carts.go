package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/service"
)

func cartResponse(message string, cart *models.Cart) gin.H {
	items := []models.CartItem{}
	if cart != nil {
		items = cart.Items
	}
	resp := gin.H{"cart": cart, "items": items}
	if message != "" {
		resp["message"] = message
	}
	return resp
}

func (a *API) getCart(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	cart, err := a.carts.GetOrCreate(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse("", cart))
}

func (a *API) addCartItem(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var input service.CartItemInput
	if !a.bindJSON(c, &input) {
		return
	}
	cart, err := a.carts.AddItem(c.Request.Context(), user.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse("Item added to cart", cart))
}

func (a *API) updateCartItem(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var input service.CartItemInput
	if !a.bindJSON(c, &input) {
		return
	}
	cart, err := a.carts.UpdateItem(c.Request.Context(), user.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse("Cart item updated", cart))
}

func (a *API) removeCartItem(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	cart, err := a.carts.RemoveItem(c.Request.Context(), user.ID, c.Param("productId"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse("Item removed from cart", cart))
}

func (a *API) clearCart(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	cart, err := a.carts.Clear(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse("Cart cleared", cart))
}
