package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/snapvent/internal/config"
	"github.com/joshua-takyi/snapvent/internal/rabbit"
	"github.com/joshua-takyi/snapvent/internal/storage"
	"github.com/rs/zerolog"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// supabase init
func InitSupabase(cfg *config.Config) (*supabase.Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}

// mongo init
func MongoDBConnect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

func MongoDBDisconnect(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect MongoDB: %w", err)
	}
	return nil
}

// S3Client targets any S3 compatible endpoint, including Supabase Storage.
func S3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

func CloudinaryCredentials(cfg *config.Config) (*cloudinary.Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinarySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return cld, nil
}

// BlobStore builds the store selected by BLOB_PROVIDER.
func BlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, error) {
	switch cfg.BlobProvider {
	case config.BlobProviderCloudinary:
		cld, err := CloudinaryCredentials(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewCloudinaryStore(cld), nil
	default:
		client, err := S3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3Bucket, cfg.PresignExpiry), nil
	}
}

// Publisher connects to RabbitMQ when AMQP_URL is set. The returned close
// function is never nil.
func Publisher(cfg *config.Config, logger zerolog.Logger) (rabbit.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		logger.Info().Msg("AMQP_URL not set, notifications disabled")
		return rabbit.Noop{}, func() {}, nil
	}
	client, err := rabbit.NewRabbit(cfg.AMQPURL, cfg.AMQPExchange, logger)
	if err != nil {
		return nil, func() {}, err
	}
	return client, client.Close, nil
}
