package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindcompanion/backend/internal/store"
)

func (a *App) listPatients(c *gin.Context) {
	users, err := a.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load patients")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *App) getPatient(c *gin.Context) {
	user, err := a.store.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "User not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to load patient")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (a *App) adminOverview(c *gin.Context) {
	users, err := a.store.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load patients")
		return
	}
	c.JSON(http.StatusOK, aggregateDistress(users))
}
