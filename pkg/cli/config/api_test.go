package config_test

import (
	"testing"
	"time"

	"github.com/crmdesk/agenda/pkg/cli/config"
	"github.com/m-mizutani/gt"
)

func TestAPI_Configure(t *testing.T) {
	t.Run("valid url", func(t *testing.T) {
		svc, err := config.NewAPIForTest("http://localhost:8080", "token").Configure(time.UTC)
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotEqual(nil)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := config.NewAPIForTest("ftp://localhost", "").Configure(time.UTC)
		gt.Error(t, err)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := config.NewAPIForTest("", "").Configure(time.UTC)
		gt.Error(t, err)
	})
}
