package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/twgen/pkg/theme"
)

const defaultListLimit = 100

func categoryNames() []string {
	out := make([]string, len(theme.Categories))
	for i, c := range theme.Categories {
		out[i] = string(c)
	}
	return out
}

func listUtilitiesTool() mcp.Tool {
	return mcp.NewTool("list_utilities",
		mcp.WithDescription("List generated utility classes with their declarations. Filter by theme category or class-name prefix."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("category", mcp.Description("Theme category the utilities are generated from"), mcp.Enum(categoryNames()...)),
		mcp.WithString("prefix", mcp.Description("Only classes starting with this prefix, e.g. \"bg-\"")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of utilities to return (default 100)")),
	)
}

func explainClassTool() mcp.Tool {
	return mcp.NewTool("explain_class",
		mcp.WithDescription("Explain class tokens: whether each is a known utility, its variants, layer and the CSS it produces."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithArray("classes", mcp.Required(), mcp.Description("Class tokens such as \"md:hover:bg-red-500\""), mcp.WithStringItems()),
	)
}

func generateCSSTool() mcp.Tool {
	return mcp.NewTool("generate_css",
		mcp.WithDescription("Generate the stylesheet fragment for a list of class tokens, without preflight."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithArray("classes", mcp.Required(), mcp.Description("Class tokens to emit"), mcp.WithStringItems()),
		mcp.WithBoolean("pretty", mcp.Description("Indent output one declaration per line")),
	)
}

func buildStylesheetTool() mcp.Tool {
	return mcp.NewTool("build_stylesheet",
		mcp.WithDescription("Scan the project and build the full stylesheet. Returns build statistics and warnings."),
		mcp.WithBoolean("include_css", mcp.Description("Include the generated CSS in the response")),
		mcp.WithBoolean("write", mcp.Description("Write the stylesheet to the configured output file")),
	)
}
