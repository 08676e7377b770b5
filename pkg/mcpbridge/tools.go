package mcpbridge

import "github.com/mark3labs/mcp-go/mcp"

func pullTool() mcp.Tool {
	return mcp.NewTool("pull_design_tokens",
		mcp.WithDescription("Fetch the design tokens of the configured Figma file, grouped by category (colors, spacing, typography, borderRadius, shadows, opacity)."),
	)
}

func pushTool() mcp.Tool {
	return mcp.NewTool("push_design_tokens",
		mcp.WithDescription("Write a token document into the Figma file's variable collection."),
		mcp.WithString("tokens",
			mcp.Required(),
			mcp.Description(`Token document as JSON: {"category": {"name": {"value": ..., "type": ...}}}`),
		),
		mcp.WithBoolean("merge",
			mcp.DefaultBool(true),
			mcp.Description("Keep variables the document does not mention"),
		),
		mcp.WithBoolean("dry_run",
			mcp.DefaultBool(false),
			mcp.Description("Plan the write without applying it"),
		),
	)
}

func validateTool() mcp.Tool {
	return mcp.NewTool("validate_tokens",
		mcp.WithDescription("Report every structural problem of a token document."),
		mcp.WithString("tokens",
			mcp.Required(),
			mcp.Description("Token document as JSON"),
		),
	)
}

func buildTool() mcp.Tool {
	return mcp.NewTool("build_tokens",
		mcp.WithDescription("Convert a token document to Style Dictionary build format for a platform."),
		mcp.WithString("tokens",
			mcp.Required(),
			mcp.Description("Token document as JSON"),
		),
		mcp.WithString("platform",
			mcp.Enum("web", "ios", "android"),
			mcp.DefaultString("web"),
			mcp.Description("Target platform"),
		),
	)
}

func componentSpecTool() mcp.Tool {
	return mcp.NewTool("component_spec",
		mcp.WithDescription("Extract the props of a React component source and build its Figma component definition."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("TSX/JSX source of the component"),
		),
		mcp.WithString("path",
			mcp.Description("File path, used for the component name when no export is found"),
		),
	)
}
