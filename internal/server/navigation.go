package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"genai-hiring-backend/internal/utilities"
	"genai-hiring-backend/internal/workflow"
)

// navigationHandler returns the sidebar entries for the caller's role.
// @Summary Get navigation entries
// @Description Entries depend on the caller's role. The entry matching the current path is marked active.
// @Tags Navigation
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param current_path query string false "Frontend path used to mark the active entry"
// @Success 200 {array} workflow.NavEntry
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Router /navigation [get]
func (s *MyServer) navigationHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, workflow.Navigation(user.Role, c.Query("current_path")))
}
