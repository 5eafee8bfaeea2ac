// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pushgate/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	ApplicationHandler *handler.ApplicationHandler
	DeviceHandler      *handler.DeviceHandler
	TopicHandler       *handler.TopicHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	applicationHandler *handler.ApplicationHandler
	deviceHandler      *handler.DeviceHandler
	topicHandler       *handler.TopicHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		applicationHandler: params.ApplicationHandler,
		deviceHandler:      params.DeviceHandler,
		topicHandler:       params.TopicHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	apiV1 := e.Group("/api/v1")

	// Application provisioning routes
	applicationsGroup := apiV1.Group("/applications")
	{
		applicationsGroup.POST("", r.applicationHandler.CreateApplication)
		applicationsGroup.GET("/:id", r.applicationHandler.GetApplication)
		applicationsGroup.DELETE("/:id", r.applicationHandler.DeleteApplication)
		applicationsGroup.POST("/:id/platforms", r.applicationHandler.CreatePlatform)
		applicationsGroup.POST("/:id/topics", r.applicationHandler.CreateTopic)
		applicationsGroup.POST("/:id/devices", r.applicationHandler.AddDevice)
	}

	// Platform routes
	platformsGroup := apiV1.Group("/platforms")
	{
		platformsGroup.DELETE("/:id", r.applicationHandler.DeletePlatform)
	}

	// Device routes
	devicesGroup := apiV1.Group("/devices")
	{
		devicesGroup.POST("/:id/send", r.deviceHandler.SendToDevice)
		devicesGroup.GET("/:id/messages", r.deviceHandler.ListMessages)
		devicesGroup.DELETE("/:id", r.deviceHandler.DeleteDevice)
	}

	// Send-audit trail routes
	messagesGroup := apiV1.Group("/messages")
	{
		messagesGroup.DELETE("/:id", r.deviceHandler.PurgeMessage)
	}

	// Topic routes
	topicsGroup := apiV1.Group("/topics")
	{
		topicsGroup.POST("/:id/send", r.topicHandler.SendToTopic)
		topicsGroup.POST("/:id/subscriptions", r.topicHandler.Subscribe)
		topicsGroup.DELETE("/:id/subscriptions/:deviceID", r.topicHandler.Unsubscribe)
		topicsGroup.DELETE("/:id", r.topicHandler.DeleteTopic)
	}
}
