package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/crmdesk/agenda/pkg/domain/interfaces"
	"github.com/crmdesk/agenda/pkg/domain/model"
	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/utils/errutil"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/crmdesk/agenda/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

const maxRequestBody = 1 << 20

type listActivitiesResponse struct {
	Items []*model.Activity `json:"items"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseActivityQuery(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.activities.List(r.Context(), q)
	if err != nil {
		errutil.Handle(r.Context(), err, "failed to list activities")
		writeError(w, r, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if items == nil {
		items = []*model.Activity{}
	}

	logging.From(r.Context()).Debug("listed activities",
		"kind", q.Kind,
		"window", q.Window.String(),
		"filter", q.Filter.Key(),
		"count", len(items),
		"subject", subjectFromContext(r.Context()),
	)

	writeJSON(w, r, http.StatusOK, listActivitiesResponse{Items: items})
}

func (s *Server) parseActivityQuery(r *http.Request) (interfaces.ActivityQuery, error) {
	params := r.URL.Query()
	var q interfaces.ActivityQuery

	if v := params.Get("kind"); v != "" {
		kind, err := types.ParseActivityKind(v)
		if err != nil {
			return q, err
		}
		q.Kind = kind
	}

	from, to := params.Get("dateFrom"), params.Get("dateTo")
	if (from == "") != (to == "") {
		return q, goerr.New("dateFrom and dateTo must be given together")
	}
	if from != "" {
		fromTS, err := model.ParseTimestamp(from, s.location)
		if err != nil {
			return q, goerr.Wrap(err, "invalid dateFrom")
		}
		toTS, err := model.ParseTimestamp(to, s.location)
		if err != nil {
			return q, goerr.Wrap(err, "invalid dateTo")
		}
		upper := toTS.Time()
		// dateTo arrives truncated to the second; keep the whole second inclusive
		if upper.Nanosecond() == 0 {
			upper = upper.Add(time.Second - time.Nanosecond)
		}
		if upper.Before(fromTS.Time()) {
			return q, goerr.New("dateTo is before dateFrom")
		}
		q.Window = model.Interval{From: fromTS.Time(), To: upper}
	}

	q.Filter = model.Filter{
		AssignedToUserID: types.UserID(params.Get("assignedToUserId")),
		CreatedByUserID:  types.UserID(params.Get("createdBy")),
		ScopeOwnerID:     types.UserID(params.Get("userId")),
	}
	return q, nil
}

func (s *Server) createActivity(w http.ResponseWriter, r *http.Request) {
	var activity model.Activity
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&activity); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if activity.CreatedByUserID == "" {
		activity.CreatedByUserID = subjectFromContext(r.Context())
	}

	created, err := s.activities.Put(r.Context(), &activity)
	if err != nil {
		s.writeRepositoryError(w, r, err, "failed to create activity")
		return
	}

	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) updateActivityStatus(w http.ResponseWriter, r *http.Request) {
	id := types.ActivityID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := types.ParseActivityStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	current, err := s.activities.Get(r.Context(), id)
	if err != nil {
		s.writeRepositoryError(w, r, err, "failed to get activity")
		return
	}
	if !status.ValidFor(current.Kind) {
		writeError(w, r, http.StatusBadRequest, "status "+status.String()+" does not apply to "+current.Kind.String())
		return
	}
	if !current.Status.CanTransition(current.Kind, status) {
		writeError(w, r, http.StatusConflict, "cannot move from "+current.Status.String()+" to "+status.String())
		return
	}

	updated, err := s.activities.UpdateStatus(r.Context(), id, status)
	if err != nil {
		s.writeRepositoryError(w, r, err, "failed to update activity status")
		return
	}

	logging.From(r.Context()).Info("activity status updated",
		"id", id,
		"from", current.Status,
		"to", status,
		"subject", subjectFromContext(r.Context()),
	)

	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) writeRepositoryError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "activity not found")
	case errors.Is(err, model.ErrInvalidActivity):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		errutil.Handle(r.Context(), err, msg)
		writeError(w, r, http.StatusInternalServerError, msg)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}
