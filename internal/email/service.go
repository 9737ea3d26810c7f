package email

import (
	"context"
)

type Service interface {
	SendWelcome(ctx context.Context, to string, name string) error
	SendSecurityAlert(ctx context.Context, to string, detail string) error
}
