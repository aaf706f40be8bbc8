package http

import (
	"bytes"
	"encoding/hex"
	"net/http"

	"github.com/CcydtN/Touchpad-Emulator/internal/dto"
	"github.com/CcydtN/Touchpad-Emulator/internal/hid"
	"github.com/CcydtN/Touchpad-Emulator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TouchHandler 封装了触点上报与镜像查询的 HTTP 处理逻辑
type TouchHandler struct {
	touchpad *service.TouchpadService
}

// NewTouchHandler 创建 TouchHandler 实例
func NewTouchHandler(touchpad *service.TouchpadService) *TouchHandler {
	if touchpad == nil {
		panic("TouchpadService cannot be nil for TouchHandler")
	}
	return &TouchHandler{touchpad: touchpad}
}

// HandleTouch 处理 POST /:event，event 为四种触摸信号之一
func (h *TouchHandler) HandleTouch(c *gin.Context) {
	event := c.Param("event")
	logCtx := logrus.WithField("event", event)

	var req dto.TouchBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.HandleTouch: Invalid request body")
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	evt, err := h.touchpad.Process(c.Request.Context(), event, req.Touches)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.HandleTouch: Failed to process touch batch")
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.TouchAck{Event: evt.Event, Active: evt.Active})
}

// Contacts 处理 GET /api/contacts
func (h *TouchHandler) Contacts(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, dto.ContactsResponse{Touches: h.touchpad.ActiveContacts()})
}

// Stats 处理 GET /api/stats
func (h *TouchHandler) Stats(c *gin.Context) {
	counts, err := h.touchpad.Counts(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, counts)
}

// Descriptor 处理 GET /api/hid/descriptor
func (h *TouchHandler) Descriptor(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, dto.DescriptorResponse{
		ReportDescriptor: hex.EncodeToString(hid.ReportDescriptor()),
		ClassDescriptor:  hex.EncodeToString(hid.ClassDescriptor()),
		ReportSize:       hid.ReportSize,
	})
}

// SurfacePNG 处理 GET /surface.png
func (h *TouchHandler) SurfacePNG(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.touchpad.SurfacePNG(&buf); err != nil {
		HandleServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// ResetSurface 处理 DELETE /surface
func (h *TouchHandler) ResetSurface(c *gin.Context) {
	h.touchpad.Reset()
	c.Status(http.StatusNoContent)
}
