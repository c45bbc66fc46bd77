package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/Alia5/padlink/apitypes"
	"github.com/Alia5/padlink/connector"
	"github.com/Alia5/padlink/internal/server/api"
	"github.com/Alia5/padlink/link"
)

// LinkController is the part of the event loop the link routes drive.
type LinkController interface {
	Status() connector.Status
	Connect(ctx context.Context) error
}

func linkState(st connector.Status) apitypes.LinkStateResponse {
	r := apitypes.LinkStateResponse{
		State:   st.State.String(),
		Device:  st.Device.Name,
		Address: st.Device.Address,
	}
	if st.Reason != nil {
		r.Reason = st.Reason.Error()
	}
	return r
}

func writeJSON(res *api.Response, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res.JSON = string(b)
	return nil
}

// LinkState reports the connector state.
func LinkState(c LinkController) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		return writeJSON(res, linkState(c.Status()))
	}
}

// LinkConnect starts a new connect attempt. The response carries the state
// right after the attempt started; poll link/state for the outcome.
func LinkConnect(c LinkController) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		if err := c.Connect(req.Ctx); err != nil {
			switch {
			case errors.Is(err, connector.ErrBusy):
				return api.ErrConflict(c.Status().State.String())
			case errors.Is(err, connector.ErrNoMatchingDevice):
				return api.ErrNotFound(err.Error())
			case errors.Is(err, connector.ErrPermissionDenied):
				return api.ErrForbidden(err.Error())
			}
			return err
		}
		return writeJSON(res, linkState(c.Status()))
	}
}

// LinkStats reports the counters of the installed session.
func LinkStats(slot *link.Slot) api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		out := apitypes.LinkStatsResponse{}
		if s := slot.Session(); s != nil {
			st := s.Stats()
			out.Connected = s.Connected()
			out.Stats = apitypes.LinkStats{Sent: st.Sent, Dropped: st.Dropped, Failed: st.Failed}
		}
		return writeJSON(res, out)
	}
}
