package server

import (
	"github.com/ironsheep/kolam-tools-mcp/internal/pattern"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func patternTypeNames() []string {
	types := pattern.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Pattern Generation
		{
			Name:        "kolam_dot_grid",
			Description: "Build a kolam dot lattice and return the dot coordinates, rows, border dots and diagonal connections. The diamond layout has max_width+1 rows; the square layout is grid_size by grid_size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"layout": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"diamond", "square"},
						"description": "Lattice shape. Default diamond",
						"default":     "diamond",
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Widest row of the diamond layout, odd, 3 to 11. Default 5",
						"default":     5,
					},
					"grid_size": map[string]interface{}{
						"type":        "integer",
						"description": "Dots per side of the square layout, 2 to 12. Default 5",
						"default":     5,
					},
					"spacing": map[string]interface{}{
						"type":        "number",
						"description": "Distance between neighbouring dots. Default 1.0",
						"default":     1.0,
					},
				},
			},
		},
		{
			Name:        "kolam_generate",
			Description: "Generate a kolam pattern on a dot lattice and render it as PNG (base64) or SVG text. Optionally write the result to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        patternTypeNames(),
						"description": "Pattern type",
					},
					"grid_size": map[string]interface{}{
						"type":        "integer",
						"description": "Dots per side for the square patterns, 2 to 12. Default 5",
						"default":     5,
					},
					"max_width": map[string]interface{}{
						"type":        "integer",
						"description": "Widest row for diamond-lattice, odd, 3 to 11. Default 5",
						"default":     5,
					},
					"spacing": map[string]interface{}{
						"type":        "number",
						"description": "Distance between neighbouring dots. Default 1.0",
						"default":     1.0,
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "svg"},
						"description": "Output format. Default png",
						"default":     "png",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas side in pixels. Defaults to the server render size",
					},
					"line_color": map[string]interface{}{
						"type":        "string",
						"description": "Stroke color as hex, e.g. #B22222",
					},
					"dot_color": map[string]interface{}{
						"type":        "string",
						"description": "Dot color as hex, e.g. #000000",
					},
					"bg_color": map[string]interface{}{
						"type":        "string",
						"description": "Background color as hex, e.g. #FFFFFF",
					},
					"line_width": map[string]interface{}{
						"type":        "number",
						"description": "Stroke width in pixels. Default 2.5",
					},
					"show_dots": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the lattice dots. Default true",
						"default":     true,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write; relative paths resolve against the server output directory",
					},
				},
				"required": []string{"type"},
			},
		},

		// Analysis
		{
			Name:        "kolam_analyze",
			Description: "Analyze a kolam image: bilateral symmetry score, line density and contour complexity, with design findings, a plain-text report and the edge map as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"tiered": map[string]interface{}{
						"type":        "boolean",
						"description": "Use three-tier symmetry findings. Defaults to the server setting",
					},
					"include_edges": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the edge map image. Default true",
						"default":     true,
					},
					"report_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the text report to",
					},
				},
				"required": []string{"path"},
			},
		},

		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The image stays cached for later analysis.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection and return the edge map as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Canny low threshold (0-255). Defaults to the server setting",
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Canny high threshold (0-255). Defaults to the server setting",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
