package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/storage"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/mailer"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	store       repository.Store
	redisClient *redis.Client

	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager
	hasher     *helpers.PasswordHasher

	publicBucket  storage.Bucket
	privateBucket storage.Bucket

	mailDispatcher *mailer.Dispatcher
	rabbitPub      *helpers.RabbitPublisher
	esClient       *elasticsearch.Client
)

func SetConfig(c *config.Config)            { cfg = c }
func GetConfig() *config.Config             { return cfg }
func SetLogger(l *logrus.Logger)            { logger = l }
func GetLogger() *logrus.Logger             { return logger }
func SetPGPool(p *pgxpool.Pool)             { pgPool = p }
func GetPGPool() *pgxpool.Pool              { return pgPool }
func SetStore(s repository.Store)           { store = s }
func GetStore() repository.Store            { return store }
func SetRedis(r *redis.Client)              { redisClient = r }
func GetRedis() *redis.Client               { return redisClient }
func SetJWT(m *helpers.JWTManager)          { jwtManager = m }
func GetJWT() *helpers.JWTManager           { return jwtManager }
func SetCookies(m *helpers.Manager)         { cookies = m }
func GetCookies() *helpers.Manager          { return cookies }
func SetHasher(h *helpers.PasswordHasher)   { hasher = h }
func GetHasher() *helpers.PasswordHasher    { return hasher }
func SetPublicBucket(b storage.Bucket)      { publicBucket = b }
func GetPublicBucket() storage.Bucket       { return publicBucket }
func SetPrivateBucket(b storage.Bucket)     { privateBucket = b }
func GetPrivateBucket() storage.Bucket      { return privateBucket }
func SetMailer(d *mailer.Dispatcher)        { mailDispatcher = d }
func GetMailer() *mailer.Dispatcher         { return mailDispatcher }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

// SetES registers the Elasticsearch client; nil leaves profile search disabled.
func SetES(c *elasticsearch.Client) { esClient = c }
func GetES() *elasticsearch.Client  { return esClient }
