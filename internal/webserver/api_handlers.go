package webserver

import (
	"encoding/json"
	"net/http"

	"swarmview/internal/agentmeta"
	"swarmview/internal/buildinfo"
	"swarmview/internal/debug"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		debug.LogKV("webserver", "failed to encode json response", "status", status, "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

type healthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	ActiveAgents int    `json:"activeAgents"`
	Viewers      int    `json:"viewers"`
}

func (srv *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Version:      buildinfo.Current().Version,
		ActiveAgents: srv.em.ActiveAgents(),
		Viewers:      srv.bcast.ViewerCount(),
	})
}

type agentSummary struct {
	ID        string `json:"id"`
	AgentType string `json:"agentType"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	StartedAt int64  `json:"startedAt"`
}

func (srv *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	active := srv.reg.Active()
	out := make([]agentSummary, 0, len(active))
	for _, a := range active {
		info := agentmeta.InfoFor(a.AgentType)
		out = append(out, agentSummary{
			ID:        a.ID,
			AgentType: a.AgentType,
			Name:      info.Name,
			Icon:      info.Icon,
			StartedAt: a.StartTime.UnixMilli(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
