package handlers

import (
	"net/http"

	"github.com/Nienta-PK/taskmanager/backend/internal/services"

	"github.com/gin-gonic/gin"
)

type LookupHandler struct {
	lookups services.LookupService
}

func NewLookupHandler(lookups services.LookupService) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

func (h *LookupHandler) Categories(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.lookups.Categories(c.Request.Context()) })
}

func (h *LookupHandler) Priorities(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.lookups.Priorities(c.Request.Context()) })
}

func (h *LookupHandler) Statuses(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.lookups.Statuses(c.Request.Context()) })
}

func (h *LookupHandler) Weekdays(c *gin.Context) {
	respond(c, func() (interface{}, error) { return h.lookups.Weekdays(c.Request.Context()) })
}

func respond(c *gin.Context, fetch func() (interface{}, error)) {
	body, err := fetch()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, body)
}
