package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/musicdb/internal/services"
	"github.com/localnerve/musicdb/internal/utils"
)

// UserHandler handles user routes
type UserHandler struct {
	Store *services.Store
}

// GetUser handles GET /user/:user_id
// @Summary Get a user
// @Description Get a user with the playlists and albums it owns
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} models.UserDetail
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /user/{user_id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	user, err := h.Store.GetUser(c.UserContext(), userID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// ListUsers handles GET /users?limit&offset
// @Summary List users
// @Description Get one page of users and the total user count. limit is capped at 100.
// @Tags Users
// @Produce json
// @Param limit query int false "Page size (default 100, max 100)"
// @Param offset query int false "Rows to skip (default 0)"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	users, total, err := h.Store.ListUsers(c.UserContext(), page)
	if err != nil {
		return err
	}

	return utils.ListResponse(c, "users", users, total)
}

// CreateUser handles POST /user
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Param body body services.UserCreate true "User"
// @Success 201 {object} models.User
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /user [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var body services.UserCreate
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if err := requireString(body.Email, "email"); err != nil {
		return err
	}

	user, err := h.Store.CreateUser(c.UserContext(), body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, user, fiber.StatusCreated)
}

// UpdateUser handles PATCH /user/:user_id
// @Summary Update a user
// @Description Apply only the fields present in the body
// @Tags Users
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Param body body services.UserUpdate true "Fields to change"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Router /user/{user_id} [patch]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	var body services.UserUpdate
	if err := parseBody(c, &body); err != nil {
		return err
	}

	user, err := h.Store.UpdateUser(c.UserContext(), userID, body)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// DeleteUser handles DELETE /user/:user_id
// @Summary Delete a user
// @Description Owned playlists and albums are kept without an owner
// @Tags Users
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/{user_id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := parseID(c, "user_id")
	if err != nil {
		return err
	}

	if err := h.Store.DeleteUser(c.UserContext(), userID); err != nil {
		return err
	}

	return utils.StatusResponse(c)
}
