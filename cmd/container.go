package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/clarify-hr/clarify/hiring/application/applicationapi"
	"github.com/clarify-hr/clarify/hiring/application/applicationinfra"
	"github.com/clarify-hr/clarify/hiring/application/applicationsrv"
	"github.com/clarify-hr/clarify/hiring/chat/chatapi"
	"github.com/clarify-hr/clarify/hiring/chat/chatinfra"
	"github.com/clarify-hr/clarify/hiring/chat/chatsrv"
	"github.com/clarify-hr/clarify/hiring/vacancy/vacancyapi"
	"github.com/clarify-hr/clarify/hiring/vacancy/vacancyinfra"
	"github.com/clarify-hr/clarify/hiring/vacancy/vacancysrv"
	"github.com/clarify-hr/clarify/internal/ai/chatrender"
	"github.com/clarify-hr/clarify/internal/ai/embeddings"
	"github.com/clarify-hr/clarify/internal/ai/matcher"
	"github.com/clarify-hr/clarify/pkg/fsx"
	"github.com/clarify-hr/clarify/pkg/fsx/fsxs3"
	"github.com/clarify-hr/clarify/pkg/logx"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client
	OpenAI     *openai.Client

	// Domain Services
	VacancyService     *vacancysrv.VacancyService
	ApplicationService *applicationsrv.ApplicationService
	ChatService        *chatsrv.ChatService

	// API Handlers
	VacancyHandlers     *vacancyapi.Handlers
	ApplicationHandlers *applicationapi.Handlers
	ChatHandlers        *chatapi.Handlers
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPass := os.Getenv("REDIS_PASS")
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS S3 Configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "uploads")

	// 4. OpenAI Client (shared by matcher, renderer and embeddings)
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		logx.Warn("OPENAI_API_KEY is not set, AI calls will fail")
	}
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
	)
	c.OpenAI = &client
}

func (c *Container) initServices() {
	// --- Repositories ---
	vacancyRepo := vacancyinfra.NewPostgresVacancyRepository(c.DB)
	applicationRepo := applicationinfra.NewPostgresApplicationRepository(c.DB)
	sessionStore := chatinfra.NewRedisSessionStore(c.Redis, sessionTTL())

	// --- AI Components ---
	chatModel := os.Getenv("OPENAI_CHAT_MODEL")

	// Retrieval support is a deployment property, decided once at
	// startup instead of sniffed per call.
	useRetrieval := envBool("AI_USE_RETRIEVAL", false)

	embedder := embeddings.NewEmbeddingsGenerator(c.OpenAI)
	resumeMatcher := matcher.NewMatcher(c.OpenAI, chatModel, useRetrieval, embedder)
	renderer := chatrender.NewRenderer(c.OpenAI, chatModel)

	// --- Domain Services ---
	c.VacancyService = vacancysrv.NewVacancyService(vacancyRepo)
	c.ApplicationService = applicationsrv.NewApplicationService(
		applicationRepo,
		vacancyRepo,
		c.FileSystem,
		resumeMatcher,
		embedder,
		useRetrieval,
	)
	c.ChatService = chatsrv.NewChatService(sessionStore, c.ApplicationService, renderer)

	// --- Handlers ---
	c.VacancyHandlers = vacancyapi.NewHandlers(c.VacancyService)
	c.ApplicationHandlers = applicationapi.NewHandlers(c.ApplicationService)
	c.ChatHandlers = chatapi.NewHandlers(c.ChatService)
}

func sessionTTL() time.Duration {
	raw := os.Getenv("CHAT_SESSION_TTL")
	if raw == "" {
		return chatinfra.DefaultSessionTTL
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		logx.Warnf("invalid CHAT_SESSION_TTL %q, using default: %v", raw, err)
		return chatinfra.DefaultSessionTTL
	}
	return ttl
}

func envBool(name string, def bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		logx.Warnf("invalid %s %q, using default: %v", name, raw, err)
		return def
	}
	return v
}
