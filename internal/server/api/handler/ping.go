package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Alia5/padlink/apitypes"
	"github.com/Alia5/padlink/internal/server/api"
	"github.com/Alia5/padlink/internal/version"
)

// Ping returns a handler that identifies the server.
func Ping() api.HandlerFunc {
	return func(req *api.Request, res *api.Response, logger *slog.Logger) error {
		v, err := version.Get()
		if err != nil {
			return err
		}
		b, err := json.Marshal(apitypes.PingResponse{Server: "padlink", Version: v})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
