package mcp

import "github.com/mark3labs/mcp-go/mcp"

// generateRoadmapTool defines the generate_roadmap MCP tool.
var generateRoadmapTool = mcp.NewTool("generate_roadmap",
	mcp.WithDescription("Generate a four-step learning roadmap for a skill. Always returns a roadmap; a fixed plan is served when the provider is unavailable."),
	mcp.WithString("skill",
		mcp.Required(),
		mcp.Description("The skill to develop, e.g. \"Public Speaking\""),
	),
)

// generateImpactVisionTool defines the generate_impact_vision MCP tool.
var generateImpactVisionTool = mcp.NewTool("generate_impact_vision",
	mcp.WithDescription("Generate a short impact vision with three key goals for a cause."),
	mcp.WithString("topic",
		mcp.Required(),
		mcp.Description("The cause or topic, e.g. \"Clean Water\""),
	),
)

// listEventsTool defines the list_events MCP tool.
var listEventsTool = mcp.NewTool("list_events",
	mcp.WithDescription("List events from the archive, newest first, optionally for a single year."),
	mcp.WithNumber("year",
		mcp.Description("Only return events held in this year"),
	),
)

// getDepartmentTool defines the get_department MCP tool.
var getDepartmentTool = mcp.NewTool("get_department",
	mcp.WithDescription("Get a department's description, lead and focus areas."),
	mcp.WithString("slug",
		mcp.Required(),
		mcp.Description("Department slug, e.g. \"environment\""),
	),
)
