package app

import (
	"fmt"
	"log"
	"os"

	"github.com/wiliammelo/empoweru/api"
	"github.com/wiliammelo/empoweru/clients"
	"github.com/wiliammelo/empoweru/config"
	"github.com/wiliammelo/empoweru/database"
	"github.com/wiliammelo/empoweru/router"
	"github.com/wiliammelo/empoweru/services"
	"github.com/wiliammelo/empoweru/services/cron"
	"github.com/wiliammelo/empoweru/services/storage"
	"github.com/wiliammelo/empoweru/utils/cache"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		log.Println("Check whether Postgres is running")
		return err
	}

	if err := store.Init(); err != nil {
		log.Println("Failed to initialize database tables")
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Seed the admin account
	if err := database.NewSeeder(db).SeedAll(); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// Redis backs brute force protection and the outbound queues. The app
	// still serves requests without it, minus those features.
	var redisCache *cache.RedisCache
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err = cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Queue publishing and brute force protection are disabled.", err)
		redisCache = nil
	}

	// Queue dispatcher for certificates and greetings
	var dispatcher *clients.Dispatcher
	if redisCache != nil {
		dispatcher = clients.NewDispatcher(clients.NewRedisQueuePublisher(redisCache), 2, 256)
	} else {
		dispatcher = clients.NewDispatcher(noopPublisher{}, 1, 1)
	}

	// Video file storage
	var uploader services.FileUploader
	if getEnv.DO_SPACES_ACCESS_KEY != "" {
		uploader, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.DO_SPACES_ACCESS_KEY,
			SecretKey: getEnv.DO_SPACES_SECRET_KEY,
			Bucket:    getEnv.DO_SPACES_BUCKET,
			Region:    getEnv.DO_SPACES_REGION,
			Endpoint:  getEnv.DO_SPACES_ENDPOINT,
			CDNURL:    getEnv.DO_SPACES_CDN_URL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize Spaces client: %w", err)
		}
	} else {
		log.Println("Warning: DO_SPACES_ACCESS_KEY not set. Video uploads will fail.")
		uploader = unconfiguredUploader{}
	}

	// Cron jobs (enabled unless CRON_ENABLED=false)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		cronManager = cron.NewCronManager(db)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
		}
	}

	// Defer closing DB, redis, dispatcher and cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		dispatcher.Close()
		if redisCache != nil {
			redisCache.Close()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup routes (security middleware is attached inside)
	router.SetupRoutes(app, store, redisCache, dispatcher, uploader)

	return server.Run()
}
