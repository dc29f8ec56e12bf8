// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/audit"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/auth"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/controller"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/db"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/handler"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/imagestore"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/queue"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/repository"
	"github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init the two store connections
	db.Init()

	accountRepo := &repository.AccountRepository{DB: db.Core2}
	profileRepo := &repository.ProfileRepository{DB: db.Core1}
	bookingRepo := &repository.BookingRepository{DB: db.Core1}
	auditRepo := &repository.AuditRepository{DB: db.Core2}

	// Audit trail: RabbitMQ when configured, in-process queue otherwise
	var recorder audit.Recorder
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		recorder = &audit.AMQPRecorder{URL: amqpURL}
	} else {
		q := queue.NewInMemoryQueue()
		queue.StartAuditSubscriber(q, auditRepo)
		recorder = &audit.QueueRecorder{Queue: q}
	}

	imageDir := os.Getenv("IMAGE_DIR")
	if imageDir == "" {
		imageDir = "uploads"
	}

	reconciler := &service.Reconciler{
		AccountRepo: accountRepo,
		ProfileRepo: profileRepo,
		Images:      imagestore.NewDiskStore(imageDir),
		Audit:       recorder,
	}

	repairService := &service.RepairService{
		AccountRepo: accountRepo,
		ProfileRepo: profileRepo,
	}

	proximityService := &service.ProximityService{
		ProfileRepo: profileRepo,
		AccountRepo: accountRepo,
		BookingRepo: bookingRepo,
	}

	customerController := &controller.CustomerController{
		Reconciler: reconciler,
		Repair:     repairService,
	}

	customerHandler := &handler.CustomerHandler{
		AccountRepo: accountRepo,
		ProfileRepo: profileRepo,
		Proximity:   proximityService,
	}

	// Session capability lookups live in redis in production
	var resolver auth.CapabilityResolver
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		resolver = &auth.RedisResolver{
			Client: redis.NewClient(&redis.Options{Addr: redisAddr}),
		}
	} else {
		log.Println("⚠️ REDIS_ADDR not set, using dev session table")
		resolver = &auth.StaticResolver{
			Sessions: map[string]*auth.Principal{
				"dev-token": {
					UserID: 1,
					Capabilities: map[string]bool{
						"customers.read":   true,
						"customers.update": true,
						"customers.status": true,
						"customers.repair": true,
					},
				},
			},
		}
	}

	r := chi.NewRouter()
	r.Use(auth.Middleware(resolver))

	// Customer routes
	r.Get("/customers", auth.Require("customers.read", customerHandler.ListCustomers))
	r.Get("/customers/nearby", auth.Require("customers.read", customerHandler.NearbyCustomers))
	r.Get("/customers/{id}", auth.Require("customers.read", customerHandler.GetCustomer))
	r.Post("/customers/{id}", auth.Require("customers.update", customerController.UpdateCustomer))
	r.Post("/customers/{id}/status", auth.Require("customers.status", customerController.SetCustomerStatus))
	r.Post("/customers/repair", auth.Require("customers.repair", customerController.RunRepair))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
