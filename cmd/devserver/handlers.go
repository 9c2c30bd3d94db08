package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cartModel "leafside-client/internal/domains/cart/model"
	identityModel "leafside-client/internal/domains/identity/model"
	orderModel "leafside-client/internal/domains/order/model"
	"leafside-client/internal/shared/response"
	"leafside-client/pkg/jwt"
)

type handlers struct {
	state *devState
	jwt   *jwt.Manager
}

func newHandlers(state *devState, manager *jwt.Manager) *handlers {
	return &handlers{state: state, jwt: manager}
}

// ========================================
// ACCOUNT
// ========================================

func (h *handlers) register(c *gin.Context) {
	var req identityModel.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "registration rejected", err.Error())
		return
	}

	if _, err := h.state.register(req); err != nil {
		if errors.Is(err, errEmailTaken) {
			response.Conflict(c, "email already registered")
			return
		}
		response.InternalServerError(c, "could not register user")
		return
	}

	c.Status(http.StatusCreated)
}

func (h *handlers) login(c *gin.Context) {
	var req identityModel.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "login rejected", err.Error())
		return
	}

	user, err := h.state.authenticate(req.Email, req.Password)
	if err != nil {
		response.Unauthorized(c, "invalid email or password")
		return
	}

	h.issueToken(c, user)
}

func (h *handlers) refresh(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		response.BadRequest(c, "token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(body.Token)
	if err != nil {
		response.Unauthorized(c, "invalid token")
		return
	}

	user, err := h.state.profileFor(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "unknown user")
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, user.Email, firstRole(user.Roles))
	if err != nil {
		response.InternalServerError(c, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, identityModel.LoginResponse{Token: token})
}

func (h *handlers) profile(c *gin.Context) {
	profile, err := h.state.profileFor(c.GetString("userID"))
	if err != nil {
		response.NotFound(c, "profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req identityModel.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	profile, err := h.state.updateProfile(c.GetString("userID"), req)
	if err != nil {
		response.NotFound(c, "profile not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handlers) issueToken(c *gin.Context, user *userRecord) {
	token, err := h.jwt.GenerateToken(user.ID, user.Email, firstRole(user.Roles))
	if err != nil {
		response.InternalServerError(c, "could not issue token")
		return
	}
	c.JSON(http.StatusOK, identityModel.LoginResponse{Token: token})
}

func firstRole(roles []string) string {
	if len(roles) == 0 {
		return "User"
	}
	return roles[0]
}

// ========================================
// BOOKS
// ========================================

func (h *handlers) listBooks(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.listBooks())
}

func (h *handlers) getBook(c *gin.Context) {
	book, ok := h.state.getBook(c.Param("id"))
	if !ok {
		response.NotFound(c, "book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

// ========================================
// CART
// ========================================

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.cartFor(c.GetString("userID")))
}

func (h *handlers) upsertCartItem(c *gin.Context) {
	var req cartModel.UpsertItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "cart item rejected", err.Error())
		return
	}

	payload, err := h.state.upsertItem(c.GetString("userID"), req.BookID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, errUnknownBook):
			response.NotFound(c, "book not found")
		case errors.Is(err, errBookUnavailable):
			response.Conflict(c, "book is not available")
		default:
			response.InternalServerError(c, "could not update cart")
		}
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	if err := h.state.removeItem(c.GetString("userID"), c.Param("bookId")); err != nil {
		response.NotFound(c, "item not in cart")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) clearCart(c *gin.Context) {
	h.state.clearCart(c.GetString("userID"))
	c.Status(http.StatusNoContent)
}

// ========================================
// ORDERS
// ========================================

func (h *handlers) createOrder(c *gin.Context) {
	var req orderModel.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_FAILED", "order rejected", err.Error())
		return
	}

	order, err := h.state.createOrder(c.GetString("userID"), req)
	if err != nil {
		if errors.Is(err, errUnknownBook) {
			response.NotFound(c, "book not found")
			return
		}
		response.BadRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *handlers) listOrders(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.listOrders(c.GetString("userID")))
}

// ========================================
// HEALTH
// ========================================

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
