package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Component statuses, ordered from best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

var statusRank = map[string]int{statusHealthy: 0, statusDegraded: 1, statusUnhealthy: 2}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports database, search index and event stream status.",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes one dependency.
type ComponentHealth struct {
	Status  string `json:"status" doc:"healthy, degraded or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Time the probe took"`
	Message string `json:"message,omitempty" doc:"Extra detail"`
}

// HealthResponse is the worst component status plus each component's report.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"healthy, degraded or unhealthy"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthOutput wraps the health response for huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	resp := HealthResponse{
		Status: statusHealthy,
		Components: map[string]ComponentHealth{
			"database": s.checkDatabase(ctx),
			"search":   s.checkSearchIndex(),
			"sse":      s.checkSSEManager(),
		},
	}
	for _, c := range resp.Components {
		if statusRank[c.Status] > statusRank[resp.Status] {
			resp.Status = c.Status
		}
	}
	return &HealthOutput{Body: resp}, nil
}

// timed runs probe and stamps the report with how long it took.
func timed(probe func() ComponentHealth) ComponentHealth {
	start := time.Now()
	h := probe()
	h.Latency = time.Since(start).String()
	return h
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: statusDegraded, Message: "database not configured"}
	}
	return timed(func() ComponentHealth {
		if err := s.store.Ping(ctx); err != nil {
			return ComponentHealth{Status: statusUnhealthy, Message: "database ping failed"}
		}
		return ComponentHealth{Status: statusHealthy}
	})
}

// checkSearchIndex reports an empty index as degraded: discovery search
// returns nothing until the start-up reindex finishes.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.search == nil {
		return ComponentHealth{Status: statusDegraded, Message: "search index not configured"}
	}
	return timed(func() ComponentHealth {
		n, err := s.search.DocumentCount()
		switch {
		case err != nil:
			return ComponentHealth{Status: statusUnhealthy, Message: "search index unreachable"}
		case n == 0:
			return ComponentHealth{Status: statusDegraded, Message: "search index empty"}
		default:
			return ComponentHealth{Status: statusHealthy, Message: strconv.FormatUint(n, 10) + " public lists indexed"}
		}
	})
}

func (s *Server) checkSSEManager() ComponentHealth {
	if s.sseManager == nil {
		return ComponentHealth{Status: statusDegraded, Message: "event stream not configured"}
	}
	return ComponentHealth{Status: statusHealthy, Message: formatSSEStatus(s.sseManager.ClientCount())}
}

func formatSSEStatus(count int) string {
	switch count {
	case 0:
		return "no connected clients"
	case 1:
		return "1 connected client"
	default:
		return strconv.Itoa(count) + " connected clients"
	}
}
