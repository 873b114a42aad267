package handlers

import (
	"net/http"

	"plant_buddy/internal/service"

	"github.com/gin-gonic/gin"
)

// statusRequest is the payload of PATCH /api/plants/{id}/status.
type statusRequest struct {
	Status string `json:"status" binding:"required" example:"harvested"`
}

// @Summary      Create plant
// @Description  Name is required. plantedAt defaults to now; expectedGrowthDays sets predictedHarvestDate.
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        body  body      service.PlantInput  true  "Plant payload"
// @Success      200   {object}  models.Plant
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/plants [post]
func (h *Handler) createPlant(c *gin.Context) {
	var in service.PlantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	p, err := h.services.Plants.Create(c.Request.Context(), in)
	if err != nil {
		h.respondServiceError(c, "plant_create_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      List plants
// @Tags         plants
// @Produce      json
// @Success      200  {array}   models.Plant
// @Failure      500  {object}  errorResponse
// @Router       /api/plants [get]
func (h *Handler) listPlants(c *gin.Context) {
	plants, err := h.services.Plants.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "plant_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, plants)
}

// @Summary      Get plant
// @Tags         plants
// @Produce      json
// @Param        id   path      string  true  "Plant ID"
// @Success      200  {object}  models.Plant
// @Failure      404  {object}  errorResponse
// @Router       /api/plants/{id} [get]
func (h *Handler) getPlant(c *gin.Context) {
	p, err := h.services.Plants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, "plant_get_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete plant
// @Description  Soft-deletes the plant and removes its care logs and reminders.
// @Tags         plants
// @Produce      json
// @Param        id   path      string  true  "Plant ID"
// @Success      200  {object}  okResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/plants/{id} [delete]
func (h *Handler) deletePlant(c *gin.Context) {
	if err := h.services.Plants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, "plant_delete_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

// @Summary      Set plant status
// @Description  Only active plants are checked for weather risk.
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Plant ID"
// @Param        body  body      statusRequest  true  "active | harvested | dead"
// @Success      200   {object}  models.Plant
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/plants/{id}/status [patch]
func (h *Handler) setPlantStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	p, err := h.services.Plants.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.respondServiceError(c, "plant_status_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, p)
}
