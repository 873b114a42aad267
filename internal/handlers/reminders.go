package handlers

import (
	"net/http"

	"plant_buddy/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Create reminder
// @Description  type defaults to water. repeatDays 0 fires once; N > 0 repeats every N days from nextAt.
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Param        body  body      service.ReminderInput  true  "Reminder payload"
// @Success      200   {object}  models.Reminder
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/reminders [post]
func (h *Handler) createReminder(c *gin.Context) {
	var in service.ReminderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	r, err := h.services.Reminders.Create(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, "reminder_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// @Summary      List reminders
// @Description  Soonest first.
// @Tags         reminders
// @Produce      json
// @Success      200  {array}   models.Reminder
// @Failure      500  {object}  errorResponse
// @Router       /api/reminders [get]
func (h *Handler) listReminders(c *gin.Context) {
	list, err := h.services.Reminders.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "reminder_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Delete reminder
// @Tags         reminders
// @Produce      json
// @Param        id   path      string  true  "Reminder ID"
// @Success      200  {object}  okResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reminders/{id} [delete]
func (h *Handler) deleteReminder(c *gin.Context) {
	if err := h.services.Reminders.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, "reminder_delete_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}
