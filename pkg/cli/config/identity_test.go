package config_test

import (
	"errors"
	"testing"

	"github.com/crmdesk/agenda/pkg/cli/config"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/gt"
)

func signedToken(t *testing.T, subject, role string) string {
	t.Helper()
	b := jwt.NewBuilder().Subject(subject)
	if role != "" {
		b = b.Claim(config.RoleClaim, role)
	}
	tok, err := b.Build()
	gt.NoError(t, err).Required()
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, []byte("whatever")))
	gt.NoError(t, err).Required()
	return string(signed)
}

func TestIdentity_Configure(t *testing.T) {
	t.Run("flags only", func(t *testing.T) {
		v, err := config.NewIdentityForTest("u1", "admin").Configure("")
		gt.NoError(t, err).Required()
		gt.Value(t, v.UserID).Equal(types.UserID("u1"))
		gt.Value(t, v.Role).Equal(types.RoleAdmin)
	})

	t.Run("missing role defaults to employee", func(t *testing.T) {
		v, err := config.NewIdentityForTest("u1", "").Configure("")
		gt.NoError(t, err).Required()
		gt.Value(t, v.Role).Equal(types.RoleEmployee)
	})

	t.Run("claims fill the gaps", func(t *testing.T) {
		v, err := config.NewIdentityForTest("", "").Configure(signedToken(t, "u9", "OWNER"))
		gt.NoError(t, err).Required()
		gt.Value(t, v.UserID).Equal(types.UserID("u9"))
		gt.Value(t, v.Role).Equal(types.RoleOwner)
	})

	t.Run("lowercase role claim", func(t *testing.T) {
		v, err := config.NewIdentityForTest("", "").Configure(signedToken(t, "u9", "admin"))
		gt.NoError(t, err).Required()
		gt.Value(t, v.Role).Equal(types.RoleAdmin)
	})

	t.Run("flags win over claims", func(t *testing.T) {
		v, err := config.NewIdentityForTest("u1", "MANAGER").Configure(signedToken(t, "u9", "OWNER"))
		gt.NoError(t, err).Required()
		gt.Value(t, v.UserID).Equal(types.UserID("u1"))
		gt.Value(t, v.Role).Equal(types.RoleManager)
	})

	t.Run("no user at all", func(t *testing.T) {
		_, err := config.NewIdentityForTest("", "OWNER").Configure("")
		gt.Bool(t, errors.Is(err, config.ErrMissingViewer)).True()
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := config.NewIdentityForTest("u1", "intern").Configure("")
		gt.Bool(t, errors.Is(err, config.ErrInvalidConfig)).True()
	})

	t.Run("opaque token", func(t *testing.T) {
		_, err := config.NewIdentityForTest("", "").Configure("not-a-jwt")
		gt.Error(t, err)
	})
}
