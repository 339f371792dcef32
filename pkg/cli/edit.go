package cli

import (
	"strings"

	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

type editAction int

const (
	editNone editAction = iota
	editView
	editRefresh
	editQuit
)

const editHelp = "commands: mode <overview|employee|assigned-to>, user [id], scope <a,b>, kind <a,b>, r (refresh), q (quit)"

// applyEdit interprets one line typed into a live panel. A view edit returns
// the new view; other actions return view unchanged.
func applyEdit(view usecase.ViewState, line string) (usecase.ViewState, editAction, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return view, editNone, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "q", "quit":
		return view, editQuit, nil
	case "r", "refresh":
		return view, editRefresh, nil

	case "mode":
		if len(args) != 1 {
			return view, editNone, goerr.New("mode takes one argument")
		}
		mode, err := types.ParseViewMode(strings.ToLower(args[0]))
		if err != nil {
			return view, editNone, goerr.Wrap(err, "invalid mode")
		}
		view.Mode = mode
		return view, editView, nil

	case "user":
		// no argument clears the selection
		view.SelectedUserID = ""
		if len(args) > 0 {
			view.SelectedUserID = types.UserID(args[0])
		}
		return view, editView, nil

	case "scope":
		var scopes []types.ScopeName
		for _, v := range splitList(args) {
			s, err := types.ParseScopeName(strings.ToLower(v))
			if err != nil {
				return view, editNone, goerr.Wrap(err, "invalid scope")
			}
			scopes = append(scopes, s)
		}
		if len(scopes) == 0 {
			return view, editNone, goerr.New("scope needs at least one name")
		}
		view.Scopes = scopes
		return view, editView, nil

	case "kind":
		var kinds []types.ActivityKind
		for _, v := range splitList(args) {
			k, err := types.ParseActivityKind(strings.ToUpper(v))
			if err != nil {
				return view, editNone, goerr.Wrap(err, "invalid kind")
			}
			kinds = append(kinds, k)
		}
		if len(kinds) == 0 {
			return view, editNone, goerr.New("kind needs at least one name")
		}
		view.Kinds = kinds
		return view, editView, nil
	}

	return view, editNone, goerr.New("unknown command", goerr.V("command", cmd))
}

func splitList(args []string) []string {
	var out []string
	for _, a := range args {
		for _, v := range strings.Split(a, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}
