// Package mcp exposes the generators and the content catalog as MCP tools
// over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/youthsite/internal/content"
	"github.com/ziadkadry99/youthsite/internal/generator"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server.
type Server struct {
	client  *generator.Client
	catalog *content.Catalog
	mcp     *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(client *generator.Client, catalog *content.Catalog) *Server {
	s := &Server{
		client:  client,
		catalog: catalog,
	}

	s.mcp = server.NewMCPServer(
		"youthsite",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(generateRoadmapTool, s.handleGenerateRoadmap)
	s.mcp.AddTool(generateImpactVisionTool, s.handleGenerateImpactVision)
	s.mcp.AddTool(listEventsTool, s.handleListEvents)
	s.mcp.AddTool(getDepartmentTool, s.handleGetDepartment)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
