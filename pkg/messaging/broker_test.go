package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationChannel(t *testing.T) {
	assert.Equal(t,
		"notifications:8d54c551-2c69-4e1b-a7a0-3f1e5b2c9d10",
		NotificationChannel("8d54c551-2c69-4e1b-a7a0-3f1e5b2c9d10"),
	)
}
