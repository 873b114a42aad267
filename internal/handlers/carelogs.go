package handlers

import (
	"net/http"

	"plant_buddy/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errNoImage    = "No image uploaded"
	errReadUpload = "failed to read upload"
)

// @Summary      Upload plant photo
// @Description  Stores the image, runs the health analysis and records a care log.
// @Tags         logs
// @Accept       multipart/form-data
// @Produce      json
// @Param        image    formData  file    true  "Plant photo"
// @Param        plantId  formData  string  true  "Plant ID"
// @Success      200      {object}  models.CareLog
// @Failure      400      {object}  errorResponse
// @Failure      413      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/logs/upload [post]
func (h *Handler) uploadCareLog(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errNoImage})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errReadUpload, "upload_open_failed", err)
		return
	}
	defer f.Close()

	l, err := h.services.CareLogs.Upload(c.Request.Context(), service.UploadInput{
		PlantID:  c.PostForm("plantId"),
		FileName: fh.Filename,
		Body:     f,
	})
	if err != nil {
		h.respondServiceError(c, "upload_failed", err, "plant_id", c.PostForm("plantId"))
		return
	}
	c.JSON(http.StatusOK, l)
}

// @Summary      List care logs for a plant
// @Description  Newest first.
// @Tags         logs
// @Produce      json
// @Param        plantId  path      string  true  "Plant ID"
// @Success      200      {array}   models.CareLog
// @Failure      500      {object}  errorResponse
// @Router       /api/logs/plant/{plantId} [get]
func (h *Handler) listCareLogs(c *gin.Context) {
	logs, err := h.services.CareLogs.ListByPlant(c.Request.Context(), c.Param("plantId"))
	if err != nil {
		h.respondServiceError(c, "carelog_list_failed", err, "plant_id", c.Param("plantId"))
		return
	}
	c.JSON(http.StatusOK, logs)
}
