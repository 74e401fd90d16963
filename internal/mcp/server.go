package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/vault-md/launchdeck/internal/detail"
	"github.com/vault-md/launchdeck/internal/grid"
	"github.com/vault-md/launchdeck/internal/logging"
	"github.com/vault-md/launchdeck/internal/spacex"
	"github.com/vault-md/launchdeck/internal/usecase"
	"github.com/vault-md/launchdeck/internal/view"
)

// Server exposes a dashboard session as MCP tools.
type Server struct {
	server    *mcp.Server
	dashboard *usecase.Dashboard
	logger    *zap.Logger

	// launches_list drives the session's single launches controller
	launchesMu sync.Mutex
}

// NewServer creates a new MCP server over dashboard.
func NewServer(dashboard *usecase.Dashboard, version string, logger *zap.Logger) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "launchdeck",
		Version: version,
	}, nil)

	s := &Server{
		server:    mcpServer,
		dashboard: dashboard,
		logger:    logging.OrNop(logger).Named("mcp"),
	}

	s.registerTools()

	return s
}

// Run starts the MCP server with stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves one session over t.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "launches_list",
		Description: "List past or upcoming SpaceX launches, filtered, sorted and paginated",
	}, s.handleLaunchesList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "launch_detail",
		Description: "Get one launch with its rocket and payloads",
	}, s.handleLaunchDetail)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rockets_list",
		Description: "List every SpaceX rocket",
	}, s.handleRocketsList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "payloads_list",
		Description: "List every SpaceX payload",
	}, s.handlePayloadsList)
}

type LaunchesListInput struct {
	Upcoming bool   `json:"upcoming,omitempty" jsonschema:"list upcoming instead of past launches"`
	Year     string `json:"year,omitempty" jsonschema:"only launches in this UTC year, e.g. 2020"`
	Status   string `json:"status,omitempty" jsonschema:"all, success or failure (default all)"`
	Sort     string `json:"sort,omitempty" jsonschema:"date, name or rocket (default date)"`
	Desc     bool   `json:"desc,omitempty" jsonschema:"sort descending"`
	Page     int    `json:"page,omitempty" jsonschema:"page number starting at 1"`
}

type LaunchEntry struct {
	ID           string `json:"id"`
	FlightNumber int    `json:"flightNumber"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	Rocket       string `json:"rocket"`
	Status       string `json:"status"`
	Details      string `json:"details,omitempty"`
}

type LaunchesListOutput struct {
	Launches   []LaunchEntry `json:"launches"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int           `json:"total"`
	Warning    string        `json:"warning,omitempty"`
}

type LaunchDetailInput struct {
	ID string `json:"id" jsonschema:"launch identifier"`
}

type RocketsListInput struct{}

type RocketsListOutput struct {
	Rockets []spacex.Rocket `json:"rockets"`
}

type PayloadsListInput struct{}

type PayloadsListOutput struct {
	Payloads []spacex.Payload `json:"payloads"`
}

func (s *Server) handleLaunchesList(ctx context.Context, req *mcp.CallToolRequest, input LaunchesListInput) (*mcp.CallToolResult, LaunchesListOutput, error) {
	s.launchesMu.Lock()
	defer s.launchesMu.Unlock()

	snap, err := s.dashboard.ListLaunches(ctx, usecase.LaunchQuery{
		Upcoming: input.Upcoming,
		Year:     input.Year,
		Status:   input.Status,
		Sort:     input.Sort,
		Desc:     input.Desc,
		Page:     input.Page,
	})
	if err != nil {
		return nil, LaunchesListOutput{}, err
	}
	if snap.Phase == view.Error && snap.Error == view.MsgLaunchesFailed {
		return nil, LaunchesListOutput{}, errors.New(snap.Error)
	}

	launches := make([]LaunchEntry, 0, len(snap.Displayed))
	for _, row := range grid.LaunchRows(snap.Displayed, snap.RocketNames) {
		launches = append(launches, LaunchEntry{
			ID:           row.ID,
			FlightNumber: row.FlightNumber,
			Name:         row.Name,
			Date:         grid.FormatDate(row.Launch),
			Rocket:       row.RocketName,
			Status:       row.Status(),
			Details:      row.Details,
		})
	}

	return nil, LaunchesListOutput{
		Launches:   launches,
		Page:       snap.State.Page,
		TotalPages: snap.TotalPages,
		Total:      snap.State.Total,
		Warning:    snap.Error,
	}, nil
}

func (s *Server) handleLaunchDetail(ctx context.Context, req *mcp.CallToolRequest, input LaunchDetailInput) (*mcp.CallToolResult, detail.Detail, error) {
	if input.ID == "" {
		return nil, detail.Detail{}, errors.New("id is required")
	}
	d, err := s.dashboard.Detail(ctx, input.ID)
	if err != nil {
		s.logger.Warn("launch detail failed", zap.String("id", input.ID), zap.Error(err))
		if spacex.IsNotFound(err) {
			return nil, detail.Detail{}, fmt.Errorf("launch not found: %s", input.ID)
		}
		return nil, detail.Detail{}, fmt.Errorf("failed to load launch %s", input.ID)
	}
	return nil, *d, nil
}

func (s *Server) handleRocketsList(ctx context.Context, req *mcp.CallToolRequest, _ RocketsListInput) (*mcp.CallToolResult, RocketsListOutput, error) {
	snap := s.dashboard.Rockets(ctx)
	if snap.Phase == view.Error {
		return nil, RocketsListOutput{}, errors.New(snap.Error)
	}
	return nil, RocketsListOutput{Rockets: snap.Items}, nil
}

func (s *Server) handlePayloadsList(ctx context.Context, req *mcp.CallToolRequest, _ PayloadsListInput) (*mcp.CallToolResult, PayloadsListOutput, error) {
	snap := s.dashboard.Payloads(ctx)
	if snap.Phase == view.Error {
		return nil, PayloadsListOutput{}, errors.New(snap.Error)
	}
	return nil, PayloadsListOutput{Payloads: snap.Items}, nil
}
