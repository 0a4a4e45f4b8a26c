package uid

import "github.com/google/uuid"

// GenerateGameID returns a random UUID used as the game key in Postgres,
// Redis and the websocket protocol.
func GenerateGameID() string {
	return uuid.NewString()
}
