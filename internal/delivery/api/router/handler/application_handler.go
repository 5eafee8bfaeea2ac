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

// ApplicationHandlerParams holds dependencies for ApplicationHandler, injected by Fx.
type ApplicationHandlerParams struct {
	fx.In

	ProvisioningUC usecase.ProvisioningUsecase
	Logger         *slog.Logger
}

// ApplicationHandler holds dependencies for application provisioning handlers
type ApplicationHandler struct {
	provisioningUC usecase.ProvisioningUsecase
	logger         *slog.Logger
}

// NewApplicationHandler is the constructor for ApplicationHandler
func NewApplicationHandler(params ApplicationHandlerParams) *ApplicationHandler {
	return &ApplicationHandler{
		provisioningUC: params.ProvisioningUC,
		logger:         params.Logger,
	}
}

// CreateApplicationRequest represents the request body for creating an application
type CreateApplicationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreatePlatformRequest represents the request body for adding a notification channel
type CreatePlatformRequest struct {
	Platform   string `json:"platform" validate:"required,max=50"`
	Credential string `json:"credential" validate:"required"`
	Principal  string `json:"principal"`
}

// CreateTopicRequest represents the request body for creating a topic
type CreateTopicRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AddDeviceRequest represents the request body for adding a device.
// Platform selects the channel by tag; when omitted, OS resolves it.
type AddDeviceRequest struct {
	DeviceID  string `json:"device_id" validate:"required,max=255"`
	PushToken string `json:"push_token" validate:"required"`
	Platform  string `json:"platform"`
	OS        string `json:"os" validate:"required_without=Platform,omitempty,oneof=ios android"`
}

// CreateApplication handles creating a new application
func (h *ApplicationHandler) CreateApplication(c echo.Context) error {
	var req CreateApplicationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid application input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	app, err := h.provisioningUC.CreateApplication(c.Request().Context(), req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, app)
}

// GetApplication handles retrieving an application by ID
func (h *ApplicationHandler) GetApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid application ID")
	}

	app, err := h.provisioningUC.GetApplication(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, app)
}

// DeleteApplication handles tearing down an application and everything under it
func (h *ApplicationHandler) DeleteApplication(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid application ID")
	}

	if err := h.provisioningUC.DeleteApplication(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Application deleted successfully"})
}

// CreatePlatform handles adding a notification channel to an application
func (h *ApplicationHandler) CreatePlatform(c echo.Context) error {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid application ID")
	}

	var req CreatePlatformRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid platform input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	platform, err := h.provisioningUC.CreatePlatform(c.Request().Context(), applicationID, &usecase.PlatformInput{
		Platform:   req.Platform,
		Credential: req.Credential,
		Principal:  req.Principal,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, platform)
}

// DeletePlatform handles tearing down a platform and all devices under it
func (h *ApplicationHandler) DeletePlatform(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid platform ID")
	}

	if err := h.provisioningUC.DeletePlatform(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Platform deleted successfully"})
}

// CreateTopic handles creating (or returning) a topic under an application
func (h *ApplicationHandler) CreateTopic(c echo.Context) error {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid application ID")
	}

	var req CreateTopicRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid topic input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	topic, err := h.provisioningUC.GetOrCreateTopic(c.Request().Context(), applicationID, req.Name)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, topic)
}

// AddDevice handles adding or refreshing a device under an application
func (h *ApplicationHandler) AddDevice(c echo.Context) error {
	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid application ID")
	}

	var req AddDeviceRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid device input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	device, err := h.provisioningUC.AddDevice(c.Request().Context(), applicationID, &usecase.DeviceInput{
		DeviceID:  req.DeviceID,
		PushToken: req.PushToken,
		Platform:  req.Platform,
		OS:        req.OS,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, device)
}
