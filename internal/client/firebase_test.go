package client_test

import (
	"testing"

	"gallery/internal/client"

	"github.com/stretchr/testify/assert"
)

func TestCredentials(t *testing.T) {
	sa, err := client.Credentials("eyJ0eXBlIjoic2VydmljZV9hY2NvdW50In0=")
	assert.NoError(t, err)
	assert.NotNil(t, sa)

	_, err = client.Credentials("not base64!")
	assert.Error(t, err)
}
