// utils/firebase.go
package utils

import (
	"context"
	"fmt"

	"providerhub/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// FirebaseDatabase opens the realtime database that holds chat channels.
func FirebaseDatabase(ctx context.Context) (*db.Client, error) {
	if config.AppConfig.FirebaseDatabaseURL == "" {
		return nil, fmt.Errorf("firebase: FIREBASE_DATABASE_URL is not set")
	}
	var opts []option.ClientOption
	if config.AppConfig.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.AppConfig.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		DatabaseURL: config.AppConfig.FirebaseDatabaseURL,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase: error initializing app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase: error getting Database client: %w", err)
	}
	return client, nil
}
