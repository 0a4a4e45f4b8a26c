package uid

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateConnectionID names a websocket connection for logs and the
// connection registry.
func GenerateConnectionID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate connection ID: %v", err)
	}
	return "conn_" + id.String(), nil
}
