package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/connectapi/connect-api/internal/logger"
	"github.com/connectapi/connect-api/internal/notifications"
)

func main() {
	configPath := parseFlags()

	logLevel,
		kafkaBrokers, kafkaTopic, kafkaGroup,
		redisHost, redisPort, redisDB, redisPassword,
		smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom,
		err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(),
		logLevel,
		kafkaBrokers, kafkaTopic, kafkaGroup,
		redisHost, redisPort, redisDB, redisPassword,
		smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom,
	); err != nil {
		log.Fatalf("worker stopped with error: %v", err)
	}
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns all
// logging, Kafka, Redis, and SMTP configuration.
func parseConfig(path string) (
	logLevel string,
	kafkaBrokers []string, kafkaTopic, kafkaGroup string,
	redisHost string, redisPort, redisDB int, redisPassword string,
	smtpHost string, smtpPort int, smtpUser, smtpPassword, smtpFrom string,
	err error,
) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	logLevel = getEnv("APP_LOG_LEVEL", "info")

	// Kafka config
	kafkaBrokers = strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	kafkaTopic = getEnv("KAFKA_WELCOME_TOPIC", "welcome-emails")
	kafkaGroup = getEnv("KAFKA_WELCOME_GROUP", "welcome-email-worker")

	// Redis config
	redisHost = getEnv("REDIS_HOST", "localhost")
	if redisPort, err = strconv.Atoi(getEnv("REDIS_PORT", "6379")); err != nil {
		return
	}
	if redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}
	redisPassword = getEnv("REDIS_PASSWORD", "")

	// SMTP config
	smtpHost = getEnv("MAIL_SERVER", "smtp.gmail.com")
	if smtpPort, err = strconv.Atoi(getEnv("MAIL_PORT", "587")); err != nil {
		return
	}
	smtpUser = getEnv("MAIL_USERNAME", "")
	smtpPassword = getEnv("MAIL_PASSWORD", "")
	smtpFrom = getEnv("MAIL_FROM", smtpUser)

	return
}

// run initializes the logger, Redis, and Kafka reader, then consumes
// welcome-email messages until a shutdown signal arrives.
func run(ctx context.Context,
	logLevel string,
	kafkaBrokers []string, kafkaTopic, kafkaGroup string,
	redisHost string, redisPort, redisDB int, redisPassword string,
	smtpHost string, smtpPort int, smtpUser, smtpPassword, smtpFrom string,
) error {
	if err := logger.Initialize(logLevel); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisHost, redisPort),
		Password: redisPassword,
		DB:       redisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Log.Fatal("Redis connection error:", err)
	}
	defer rdb.Close()

	// Kafka reader for welcome notifications
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: kafkaBrokers,
		Topic:   kafkaTopic,
		GroupID: kafkaGroup,
	})
	defer reader.Close()

	sender := notifications.NewSMTPSender(smtpHost, smtpPort, smtpUser, smtpPassword, smtpFrom)
	marker := notifications.NewRedisMarker(rdb)

	w := notifications.NewWorker(reader, sender, marker)

	logger.Log.Infow("welcome-email worker started", "topic", kafkaTopic, "group", kafkaGroup)

	if err := w.Run(ctx); err != nil {
		logger.Log.Errorw("worker stopped with error", "error", err)
		return err
	}

	logger.Log.Info("worker shutdown complete")
	return nil
}
