package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/youthsite/internal/content"
)

func (s *Server) handleGenerateRoadmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skill, err := request.RequireString("skill")
	if err != nil || strings.TrimSpace(skill) == "" {
		return mcp.NewToolResultError("missing required parameter: skill"), nil
	}
	return jsonResult(s.client.GenerateRoadmap(ctx, strings.TrimSpace(skill)))
}

func (s *Server) handleGenerateImpactVision(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := request.RequireString("topic")
	if err != nil || strings.TrimSpace(topic) == "" {
		return mcp.NewToolResultError("missing required parameter: topic"), nil
	}
	return jsonResult(s.client.GenerateImpactVision(ctx, strings.TrimSpace(topic)))
}

func (s *Server) handleListEvents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var events []content.EventRecord
	if year := request.GetInt("year", 0); year > 0 {
		events = s.catalog.EventsByYear(year)
	} else {
		events = s.catalog.Events()
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No events found."), nil
	}
	return mcp.NewToolResultText(formatEvents(events)), nil
}

func (s *Server) handleGetDepartment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := request.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: slug"), nil
	}
	d, ok := s.catalog.DepartmentBySlug(slug)
	if !ok {
		var known []string
		for _, d := range s.catalog.Departments() {
			known = append(known, d.Slug)
		}
		return mcp.NewToolResultError(fmt.Sprintf("unknown department %q (known: %s)", slug, strings.Join(known, ", "))), nil
	}
	return mcp.NewToolResultText(formatDepartment(d)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// formatEvents formats events as readable markdown.
func formatEvents(events []content.EventRecord) string {
	var b strings.Builder
	for i, e := range events {
		fmt.Fprintf(&b, "## %d. %s (%d)\n", i+1, e.Name, e.Year)
		fmt.Fprintf(&b, "**Slug:** %s\n", e.Slug)
		if e.Tagline != "" {
			fmt.Fprintf(&b, "%s\n", e.Tagline)
		}
		fmt.Fprintf(&b, "**Reach:** %d | **Ambassadors:** %d | **Participants:** %d\n\n",
			e.Metrics.Reach, e.Metrics.Ambassadors, e.Metrics.Participants)
	}
	return b.String()
}

func formatDepartment(d content.Department) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	if d.Tagline != "" {
		fmt.Fprintf(&b, "%s\n\n", d.Tagline)
	}
	if d.Lead != "" {
		fmt.Fprintf(&b, "**Lead:** %s\n\n", d.Lead)
	}
	b.WriteString(strings.TrimSpace(d.Description))
	b.WriteString("\n")
	if len(d.FocusAreas) > 0 {
		b.WriteString("\n## Focus areas\n")
		for _, f := range d.FocusAreas {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}
