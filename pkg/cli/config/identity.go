package config

import (
	"log/slog"

	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// RoleClaim is the private JWT claim carrying the viewer role
const RoleClaim = "role"

// Identity holds CLI flags naming the viewer the panels are built for
type Identity struct {
	userID string
	role   string
}

func (x *Identity) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "Viewer user ID (defaults to the API token subject)",
			Category:    "Viewer",
			Sources:     cli.EnvVars("AGENDA_USER_ID"),
			Destination: &x.userID,
		},
		&cli.StringFlag{
			Name:        "role",
			Usage:       "Viewer role [OWNER|ADMIN|MANAGER|EMPLOYEE], any case (defaults to the API token role claim)",
			Category:    "Viewer",
			Sources:     cli.EnvVars("AGENDA_ROLE"),
			Destination: &x.role,
		},
	}
}

func (x Identity) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("user_id", x.userID),
		slog.String("role", x.role),
	)
}

// Configure resolves the viewer. Values missing from flags are read from the
// claims of token without verifying its signature; the API verifies it.
// A missing role defaults to EMPLOYEE.
func (x *Identity) Configure(token string) (model.Viewer, error) {
	userID, role := x.userID, x.role

	if (userID == "" || role == "") && token != "" {
		parsed, err := jwt.ParseInsecure([]byte(token))
		if err != nil {
			return model.Viewer{}, goerr.Wrap(err, "failed to read API token claims")
		}
		if userID == "" {
			userID = parsed.Subject()
		}
		if role == "" {
			if v, ok := parsed.Get(RoleClaim); ok {
				if s, ok := v.(string); ok {
					role = s
				}
			}
		}
	}

	if userID == "" {
		return model.Viewer{}, goerr.Wrap(ErrMissingViewer, "set --user-id or an API token with a subject")
	}

	viewer := model.Viewer{UserID: types.UserID(userID), Role: types.RoleEmployee}
	if role != "" {
		r, err := types.ParseRole(role)
		if err != nil {
			return model.Viewer{}, goerr.Wrap(ErrInvalidConfig, "unknown role", goerr.V(ValueKey, role))
		}
		viewer.Role = r
	}
	return viewer, nil
}
