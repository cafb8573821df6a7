package odm

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/ctrlware/go-ctrl-boot/config"
	"github.com/ctrlware/go-ctrl-boot/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

var mongoConnect = func(uri string) (MongoClient, error) {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	opts := options.Client().ApplyURI(uri).SetTLSConfig(tlsConfig)

	return mongo.Connect(opts)
}

// ProvideMongoClient connects to Mongo and verifies the connection with a
// ping. Register it with the server builder so the container memoises the
// client:
//
//	server.New().ProvideFunc(odm.ProvideMongoClient)
func ProvideMongoClient(config *config.WebConfig) MongoClient {
	if config.MongoUri == "" {
		logger.Fatal("MongoUri config is not set")
		return nil
	}

	client, err := mongoConnect(config.MongoUri)
	if err != nil {
		logger.Fatal("Mongo connection failed", zap.Error(err))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("Mongo ping failed", zap.Error(err))
		return nil
	}

	return client
}
