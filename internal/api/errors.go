package api

import (
	"errors"
	"fmt"

	"github.com/ccboard/ccboard/internal/models"
)

var (
	errNoStats  = errors.New("stats snapshot unavailable")
	errNoBudget = errors.New("no monthly budget configured")
	errNoFlush  = errors.New("streaming unsupported by response writer")
)

func errSessionNotFound(id models.SessionID) error {
	return fmt.Errorf("no such session: %s", id)
}
