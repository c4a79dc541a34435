package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/kolam-tools-mcp/internal/analyzer"
	imgproc "github.com/ironsheep/kolam-tools-mcp/internal/imaging"
	"github.com/ironsheep/kolam-tools-mcp/internal/pattern"
	"github.com/ironsheep/kolam-tools-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "kolam_generate", "kolam_analyze").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errMissingPath is returned by image tools called without a path.
var errMissingPath = errors.New("path is required")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	elapsed := time.Since(start)
	s.metrics.observeCall(params.Name, elapsed, err)
	s.logger.Debug("tool call",
		zap.String("tool", params.Name),
		zap.Duration("duration", elapsed))
	if err != nil {
		s.logger.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Pattern Generation
	case "kolam_dot_grid":
		return s.handleKolamDotGrid(args)
	case "kolam_generate":
		return s.handleKolamGenerate(args)

	// Analysis
	case "kolam_analyze":
		return s.handleKolamAnalyze(args)

	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// resolveOutput places a relative path under the configured output directory.
func (s *Server) resolveOutput(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.cfg.OutputDir, path)
}

// writeOutput writes data to the resolved path, creating parent directories.
// Any cached decode of that path is dropped.
func (s *Server) writeOutput(path string, data []byte) (string, error) {
	full := s.resolveOutput(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", full, err)
	}
	s.cache.Evict(full)
	return full, nil
}

// === Pattern Generation Handlers ===

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type kolamDotGridArgs struct {
	Layout   string  `json:"layout"`
	MaxWidth int     `json:"max_width"`
	GridSize int     `json:"grid_size"`
	Spacing  float64 `json:"spacing"`
}

type kolamDotGridResult struct {
	Layout      string               `json:"layout"`
	MaxWidth    int                  `json:"max_width,omitempty"`
	GridSize    int                  `json:"grid_size,omitempty"`
	Spacing     float64              `json:"spacing"`
	DotCount    int                  `json:"dot_count"`
	RowCounts   []int                `json:"row_counts"`
	Points      []point              `json:"points"`
	Rows        [][]int              `json:"rows"`
	Border      []int                `json:"border"`
	Connections []pattern.Connection `json:"connections"`
}

func (s *Server) handleKolamDotGrid(args json.RawMessage) (interface{}, error) {
	var a kolamDotGridArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Layout == "" {
		a.Layout = "diamond"
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = 5
	}
	if a.GridSize == 0 {
		a.GridSize = 5
	}
	if a.Spacing == 0 {
		a.Spacing = 1.0
	}

	var (
		grid *pattern.DotGrid
		err  error
	)
	res := &kolamDotGridResult{Spacing: a.Spacing}
	switch strings.ToLower(a.Layout) {
	case "diamond":
		res.Layout = "diamond"
		res.MaxWidth = a.MaxWidth
		if s.cfg.ClampParameters {
			res.MaxWidth = pattern.ClampMaxWidth(a.MaxWidth)
		}
		grid, err = pattern.DiamondLayout(res.MaxWidth, a.Spacing)
	case "square":
		res.Layout = "square"
		res.GridSize = a.GridSize
		if s.cfg.ClampParameters {
			res.GridSize = pattern.ClampGridSize(a.GridSize)
		}
		grid, err = pattern.SquareLayout(res.GridSize, a.Spacing)
	default:
		return nil, fmt.Errorf("%w: unknown layout %q", pattern.ErrInvalidParameter, a.Layout)
	}
	if err != nil {
		return nil, err
	}

	res.DotCount = grid.Len()
	res.RowCounts = grid.RowCounts()
	res.Rows = grid.Rows
	res.Points = make([]point, len(grid.Points))
	for i, p := range grid.Points {
		res.Points[i] = point{X: p.X, Y: p.Y}
	}
	res.Border = pattern.FindBorder(grid.Points).Indices()
	res.Connections = pattern.DiagonalConnections(grid.Points, a.Spacing)
	return res, nil
}

type kolamGenerateArgs struct {
	Type       string  `json:"type"`
	GridSize   int     `json:"grid_size"`
	MaxWidth   int     `json:"max_width"`
	Spacing    float64 `json:"spacing"`
	Format     string  `json:"format"`
	Size       int     `json:"size"`
	LineColor  string  `json:"line_color"`
	DotColor   string  `json:"dot_color"`
	BgColor    string  `json:"bg_color"`
	LineWidth  float64 `json:"line_width"`
	ShowDots   *bool   `json:"show_dots"`
	OutputPath string  `json:"output_path"`
}

type kolamGenerateResult struct {
	Type        pattern.Type `json:"type"`
	Format      string       `json:"format"`
	Width       int          `json:"width"`
	Height      int          `json:"height"`
	DotCount    int          `json:"dot_count"`
	MotifCount  int          `json:"motif_count"`
	ImageBase64 string       `json:"image_base64,omitempty"`
	SVG         string       `json:"svg,omitempty"`
	MimeType    string       `json:"mime_type"`
	OutputPath  string       `json:"output_path,omitempty"`
}

func (s *Server) handleKolamGenerate(args json.RawMessage) (interface{}, error) {
	var a kolamGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.GridSize == 0 {
		a.GridSize = 5
	}
	if a.MaxWidth == 0 {
		a.MaxWidth = 5
	}
	if a.Spacing == 0 {
		a.Spacing = 1.0
	}
	if a.Format == "" {
		a.Format = "png"
	}
	if a.Size == 0 {
		a.Size = s.cfg.RenderSize
	}
	showDots := a.ShowDots == nil || *a.ShowDots

	typ, err := pattern.ParseType(a.Type)
	if err != nil {
		return nil, err
	}
	style, err := render.ParseStyle(render.StyleOptions{
		LineColor:       a.LineColor,
		DotColor:        a.DotColor,
		BackgroundColor: a.BgColor,
		LineWidth:       a.LineWidth,
		HideDots:        !showDots,
	})
	if err != nil {
		return nil, err
	}
	scene, err := pattern.Generate(pattern.Params{
		Type:     typ,
		GridSize: a.GridSize,
		MaxWidth: a.MaxWidth,
		Spacing:  a.Spacing,
		Clamp:    s.cfg.ClampParameters,
	})
	if err != nil {
		return nil, err
	}

	res := &kolamGenerateResult{
		Type:       typ,
		Format:     strings.ToLower(a.Format),
		Width:      a.Size,
		Height:     a.Size,
		DotCount:   scene.Grid.Len(),
		MotifCount: len(scene.Motifs),
	}

	var buf bytes.Buffer
	switch res.Format {
	case "png":
		if err := render.WritePNG(&buf, scene, style, a.Size); err != nil {
			return nil, err
		}
		res.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
		res.MimeType = "image/png"
	case "svg":
		if err := render.WriteSVG(&buf, scene, style, a.Size); err != nil {
			return nil, err
		}
		res.SVG = buf.String()
		res.MimeType = "image/svg+xml"
	default:
		return nil, fmt.Errorf("unsupported format %q: use png or svg", a.Format)
	}

	if a.OutputPath != "" {
		path, err := s.writeOutput(a.OutputPath, buf.Bytes())
		if err != nil {
			return nil, err
		}
		res.OutputPath = path
	}
	s.metrics.PatternsGenerated.WithLabelValues(string(typ), res.Format).Inc()
	return res, nil
}

// === Analysis Handlers ===

type kolamAnalyzeArgs struct {
	Path         string `json:"path"`
	Tiered       *bool  `json:"tiered"`
	IncludeEdges *bool  `json:"include_edges"`
	ReportPath   string `json:"report_path"`
}

type kolamAnalyzeResult struct {
	analyzer.Metrics
	Findings        []string `json:"findings"`
	Policy          string   `json:"policy"`
	Report          string   `json:"report"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Upscaled        bool     `json:"upscaled"`
	EdgeImageBase64 string   `json:"edge_image_base64,omitempty"`
	MimeType        string   `json:"mime_type,omitempty"`
	ReportPath      string   `json:"report_path,omitempty"`
}

// analyzerOptions maps the server configuration onto analyzer options.
func (s *Server) analyzerOptions(tiered bool) analyzer.Options {
	return analyzer.Options{
		CannyLow:      s.cfg.CannyLow,
		CannyHigh:     s.cfg.CannyHigh,
		BinarizeLevel: uint8(s.cfg.BinarizeLevel),
		MinSide:       s.cfg.MinImageSide,
		Upscale:       s.cfg.UpscaleSmall,
		Tiered:        tiered,
	}
}

func (s *Server) handleKolamAnalyze(args json.RawMessage) (interface{}, error) {
	var a kolamAnalyzeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	tiered := s.cfg.TieredFindings
	if a.Tiered != nil {
		tiered = *a.Tiered
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	r, err := analyzer.Analyze(img, s.analyzerOptions(tiered))
	if err != nil {
		return nil, err
	}
	s.metrics.ImagesAnalyzed.WithLabelValues(r.Policy).Inc()

	res := &kolamAnalyzeResult{
		Metrics:  r.Metrics,
		Findings: r.Findings,
		Policy:   r.Policy,
		Report:   r.Report(),
		Width:    r.Width,
		Height:   r.Height,
		Upscaled: r.Upscaled,
	}
	if a.IncludeEdges == nil || *a.IncludeEdges {
		encoded, err := imgproc.EncodePNGBase64(r.Edges)
		if err != nil {
			return nil, err
		}
		res.EdgeImageBase64 = encoded
		res.MimeType = "image/png"
	}
	if a.ReportPath != "" {
		path, err := s.writeOutput(a.ReportPath, []byte(res.Report+"\n"))
		if err != nil {
			return nil, err
		}
		res.ReportPath = path
	}
	return res, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	return imgproc.LoadImageInfo(s.cache, a.Path)
}

type imageEdgeDetectArgs struct {
	Path          string `json:"path"`
	ThresholdLow  int    `json:"threshold_low"`
	ThresholdHigh int    `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errMissingPath
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = s.cfg.CannyLow
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = s.cfg.CannyHigh
	}
	if a.ThresholdLow < 0 || a.ThresholdHigh > 255 || a.ThresholdLow >= a.ThresholdHigh {
		return nil, fmt.Errorf("thresholds must satisfy 0 <= low < high <= 255, got %d and %d",
			a.ThresholdLow, a.ThresholdHigh)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imgproc.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh)
}
