package client

import (
	"context"
	"encoding/base64"

	firebase "firebase.google.com/go"
	"github.com/go-faster/errors"
	"google.golang.org/api/option"
)

// Credentials decodes the base64 service account JSON.
func Credentials(saB64 string) (option.ClientOption, error) {
	saJSON, err := base64.StdEncoding.DecodeString(saB64)
	if err != nil {
		return nil, errors.Wrap(err, "decode service account")
	}
	return option.WithCredentialsJSON(saJSON), nil
}

func Firebase(ctx context.Context, projectID string, sa option.ClientOption) (*firebase.App, error) {
	return firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, sa)
}
