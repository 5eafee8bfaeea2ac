package main

import (
	"context"
	"log/slog"
	"os"

	"pushgate/config"
	"pushgate/internal/delivery"
	"pushgate/internal/delivery/api"
	"pushgate/internal/delivery/api/router/handler"
	"pushgate/internal/domain/repository"
	"pushgate/internal/domain/service"
	"pushgate/internal/infra/broker"
	logs "pushgate/internal/infra/log"
	"pushgate/internal/infra/persistence/postgres"
	"pushgate/internal/infra/pubsub"
	"pushgate/internal/usecase"
	"pushgate/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectUsecase(),
		injectDelivery(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
			newBrokerClient,
		),
		pubsub.Module,
	)
}

// newBrokerClient creates the SNS broker client with dependency injection
func newBrokerClient(ctx context.Context, cfg *config.Config) (service.BrokerClient, error) {
	return broker.NewSNSBroker(ctx, cfg.SNS)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewApplicationRepository,
			postgres.NewPlatformRepository,
			postgres.NewDeviceRepository,
			postgres.NewTopicRepository,
			postgres.NewSubscriptionRepository,
			postgres.NewMessageRepository,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			newRegistrationUsecase,
			newDispatchUsecase,
			newProvisioningUsecase,
		),
	)
}

// newRegistrationUsecase wires the registration state machine
func newRegistrationUsecase(
	brokerClient service.BrokerClient,
	platformRepo repository.PlatformRepository,
	deviceRepo repository.DeviceRepository,
	topicRepo repository.TopicRepository,
	subscriptionRepo repository.SubscriptionRepository,
	logger *slog.Logger,
	cfg *config.Config,
) usecase.RegistrationUsecase {
	return impl.NewRegistrationService(
		brokerClient,
		platformRepo,
		deviceRepo,
		topicRepo,
		subscriptionRepo,
		logger,
		cfg.Push.CustomUserData(),
	)
}

// newDispatchUsecase wires the message dispatch pipeline
func newDispatchUsecase(
	brokerClient service.BrokerClient,
	registration usecase.RegistrationUsecase,
	deviceRepo repository.DeviceRepository,
	platformRepo repository.PlatformRepository,
	topicRepo repository.TopicRepository,
	subscriptionRepo repository.SubscriptionRepository,
	messageRepo repository.MessageRepository,
	events service.EventPublisher,
	logger *slog.Logger,
	cfg *config.Config,
) usecase.DispatchUsecase {
	return impl.NewDispatchService(
		brokerClient,
		registration,
		deviceRepo,
		platformRepo,
		topicRepo,
		subscriptionRepo,
		messageRepo,
		events,
		logger,
		cfg.Push.LogSendsEnabled(),
	)
}

// newProvisioningUsecase wires the registry CRUD and deletion cascade
func newProvisioningUsecase(
	registration usecase.RegistrationUsecase,
	appRepo repository.ApplicationRepository,
	platformRepo repository.PlatformRepository,
	deviceRepo repository.DeviceRepository,
	topicRepo repository.TopicRepository,
	subscriptionRepo repository.SubscriptionRepository,
	logger *slog.Logger,
) usecase.ProvisioningUsecase {
	return impl.NewProvisioningService(
		registration,
		appRepo,
		platformRepo,
		deviceRepo,
		topicRepo,
		subscriptionRepo,
		logger,
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewApplicationHandler,
			handler.NewDeviceHandler,
			handler.NewTopicHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
