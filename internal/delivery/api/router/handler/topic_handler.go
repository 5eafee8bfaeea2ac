package handler

import (
	"log/slog"
	"net/http"

	"pushgate/internal/delivery/api/response"
	"pushgate/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TopicHandlerParams holds dependencies for TopicHandler, injected by Fx.
type TopicHandlerParams struct {
	fx.In

	DispatchUC     usecase.DispatchUsecase
	ProvisioningUC usecase.ProvisioningUsecase
	Logger         *slog.Logger
}

// TopicHandler holds dependencies for topic-related handlers
type TopicHandler struct {
	dispatchUC     usecase.DispatchUsecase
	provisioningUC usecase.ProvisioningUsecase
	logger         *slog.Logger
}

// NewTopicHandler is the constructor for TopicHandler
func NewTopicHandler(params TopicHandlerParams) *TopicHandler {
	return &TopicHandler{
		dispatchUC:     params.DispatchUC,
		provisioningUC: params.ProvisioningUC,
		logger:         params.Logger,
	}
}

// SubscribeRequest represents the request body for subscribing a device to a topic
type SubscribeRequest struct {
	DeviceID uuid.UUID `json:"device_id" validate:"required"`
}

// SendToTopic handles fanning a push message out through a topic
func (h *TopicHandler) SendToTopic(c echo.Context) error {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid topic ID")
	}

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid message input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	message := req.toPushMessage()
	if err := h.dispatchUC.SendToTopic(c.Request().Context(), topicID, message); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message_id": message.ID.String()})
}

// Subscribe handles subscribing a device to a topic
func (h *TopicHandler) Subscribe(c echo.Context) error {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid topic ID")
	}

	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid subscription input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	subscription, err := h.dispatchUC.SubscribeDeviceToTopic(c.Request().Context(), topicID, req.DeviceID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, subscription)
}

// Unsubscribe handles removing a device's subscription from a topic
func (h *TopicHandler) Unsubscribe(c echo.Context) error {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid topic ID")
	}

	deviceID, err := uuid.Parse(c.Param("deviceID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid device ID")
	}

	removed, err := h.dispatchUC.UnsubscribeDeviceFromTopic(c.Request().Context(), topicID, deviceID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"removed": removed})
}

// DeleteTopic handles tearing down a topic and its subscriptions
func (h *TopicHandler) DeleteTopic(c echo.Context) error {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid topic ID")
	}

	if err := h.provisioningUC.DeleteTopic(c.Request().Context(), topicID); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Topic deleted successfully"})
}
