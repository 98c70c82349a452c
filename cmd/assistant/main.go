package main

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	bookinghandler "jusbook/internal/booking/handler"
	bookingrepo "jusbook/internal/booking/repository"
	bookingservice "jusbook/internal/booking/service"
	bookingvalidator "jusbook/internal/booking/validator"
	cataloghandler "jusbook/internal/catalog/handler"
	catalogrepo "jusbook/internal/catalog/repository"
	catalogservice "jusbook/internal/catalog/service"
	catalogvalidator "jusbook/internal/catalog/validator"
	"jusbook/internal/dialogue/engine"
	dialoguehandler "jusbook/internal/dialogue/handler"
	dialogueservice "jusbook/internal/dialogue/service"
	"jusbook/internal/dialogue/store"
	"jusbook/internal/events"
	"jusbook/internal/intent"
	"jusbook/internal/timeparse"
	"jusbook/pkg/app"
	"jusbook/pkg/client"
	"jusbook/pkg/clock"
	"jusbook/pkg/config"
	"jusbook/pkg/kafka"
	kafka_config "jusbook/pkg/kafka/config"
)

const ServiceName = "jusbook-assistant"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting booking assistant")

	var mongoClient *mongo.Client
	var bookingRepo bookingrepo.BookingRepository
	var lockRepo bookingrepo.BookingLockRepository
	if cfg.MongoConfigured() {
		mc := client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		defer func() {
			if err := mc.Disconnect(context.Background()); err != nil {
				cfg.Log.Error("Failed to disconnect from MongoDB", "error", err)
			}
		}()
		mongoClient = mc.Client
		bookingRepo = bookingrepo.NewMongoBookingRepository(cfg, mongoClient)
		lockRepo = bookingrepo.NewMongoBookingLockRepository(cfg, mongoClient)
		cfg.Log.Info("Booking ledger backed by MongoDB", "database", cfg.MongoDatabaseName)
	} else {
		bookingRepo = bookingrepo.NewMemoryBookingRepository()
		lockRepo = bookingrepo.NewMemoryBookingLockRepository()
		cfg.Log.Info("Booking ledger backed by in-memory storage")
	}

	catalog := initCatalog(cfg)
	publisher := initPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			cfg.Log.Error("Failed to close event publisher", "error", err)
		}
	}()

	ledger := bookingservice.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingvalidator.NewBookingValidator(),
		publisher,
		cfg,
	)

	var parser timeparse.Parser = timeparse.NewRuleParser()
	if cfg.DatetimeFallback {
		parser = &timeparse.FallbackParser{Inner: parser, Slot: cfg.DatetimeFallbackSlot}
		cfg.Log.Info("Datetime fallback enabled", "slot", cfg.DatetimeFallbackSlot)
	}

	eng := engine.NewEngine(
		intent.NewClassifier(),
		parser,
		catalog,
		ledger,
		clock.New(),
		cfg.Log,
	)
	dialogue := dialogueservice.NewDialogueService(store.NewMemorySessionStore(), eng, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(mongoClient,
		dialoguehandler.NewSessionHandler(dialogue, cfg.Log),
		bookinghandler.NewBookingHandler(ledger, catalog, cfg.Log),
		cataloghandler.NewServiceHandler(catalog, cfg.Log),
	)
	serverApp.Run()
}

func initCatalog(cfg *config.Config) catalogservice.CatalogService {
	catalog := catalogservice.NewCatalogService(
		catalogrepo.NewMemoryServiceRepository(),
		catalogvalidator.NewServiceValidator(),
		cfg,
	)

	if cfg.SeedSampleServices {
		if err := catalog.Seed(context.Background()); err != nil {
			cfg.Log.Fatal("Failed to seed service catalog", "error", err)
		}
		cfg.Log.Info("Service catalog seeded with sample services")
	}
	return catalog
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(kafka_config.Load(), cfg.BookingEventsTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	cfg.Log.Info("Kafka producer initialized", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, cfg.Log)
}
