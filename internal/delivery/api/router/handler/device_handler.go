package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"pushgate/internal/delivery/api/response"
	"pushgate/internal/domain/entity"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// DeviceHandlerParams holds dependencies for DeviceHandler, injected by Fx.
type DeviceHandlerParams struct {
	fx.In

	DispatchUC     usecase.DispatchUsecase
	ProvisioningUC usecase.ProvisioningUsecase
	Logger         *slog.Logger
}

// DeviceHandler holds dependencies for device-related handlers
type DeviceHandler struct {
	dispatchUC     usecase.DispatchUsecase
	provisioningUC usecase.ProvisioningUsecase
	logger         *slog.Logger
}

// NewDeviceHandler is the constructor for DeviceHandler
func NewDeviceHandler(params DeviceHandlerParams) *DeviceHandler {
	return &DeviceHandler{
		dispatchUC:     params.DispatchUC,
		provisioningUC: params.ProvisioningUC,
		logger:         params.Logger,
	}
}

// SendMessageRequest represents the request body for sending a push message.
// An empty message with has_new_content set produces a silent push.
type SendMessageRequest struct {
	Message       string         `json:"message"`
	Sound         *string        `json:"sound"`
	BadgeCount    *int           `json:"badge_count"`
	HasNewContent bool           `json:"has_new_content"`
	Context       string         `json:"context"`
	ContextID     string         `json:"context_id"`
	ExtraPayload  map[string]any `json:"extra_payload"`
}

// toPushMessage builds the domain message from the request, keeping the
// entity defaults for fields the caller left out.
func (r *SendMessageRequest) toPushMessage() *entity.PushMessage {
	message := entity.NewPushMessage(r.Message)
	message.Sound = r.Sound
	message.HasNewContent = r.HasNewContent
	message.ExtraPayload = r.ExtraPayload
	if r.BadgeCount != nil {
		message.BadgeCount = *r.BadgeCount
	}
	if r.Context != "" {
		message.Context = r.Context
	}
	if r.ContextID != "" {
		message.ContextID = r.ContextID
	}

	return message
}

// SendToDevice handles a direct push to one registered device
func (h *DeviceHandler) SendToDevice(c echo.Context) error {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid device ID")
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid message input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	message := req.toPushMessage()
	if err := h.dispatchUC.SendToDevice(c.Request().Context(), deviceID, message); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message_id": message.ID.String()})
}

// ListMessages handles reading the send-audit trail of one device
func (h *DeviceHandler) ListMessages(c echo.Context) error {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid device ID")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	messages, total, err := h.dispatchUC.DeviceMessageHistory(c.Request().Context(), deviceID, limit, offset)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"messages": messages,
		"total":    total,
	})
}

// PurgeMessage handles removing one audit record
func (h *DeviceHandler) PurgeMessage(c echo.Context) error {
	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid message ID")
	}

	if err := h.dispatchUC.PurgeMessage(c.Request().Context(), messageID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Audit record deleted successfully"})
}

// DeleteDevice handles tearing down a device and its subscriptions
func (h *DeviceHandler) DeleteDevice(c echo.Context) error {
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid device ID")
	}

	if err := h.provisioningUC.DeleteDevice(c.Request().Context(), deviceID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Device deleted successfully"})
}
