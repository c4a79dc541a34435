// Package server implements the MCP (Model Context Protocol) server for the
// kolam pattern tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Pattern Generation:
//   - kolam_dot_grid: Diamond or square dot lattice with border and diagonal connections
//   - kolam_generate: Render a pattern type to PNG or SVG
//
// Analysis:
//   - kolam_analyze: Symmetry, line density, complexity, findings and report
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_edge_detect: Canny edge detection
//
// # Image Caching
//
// Images are cached by path and shared between image_load, image_edge_detect
// and kolam_analyze for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Logging goes through the zap logger passed to New and never to stdout.
//
// # Metrics
//
// Every tool call is counted and timed on a private Prometheus registry.
// HTTPHandler exposes it at /metrics, next to a /health probe, for callers
// that run an HTTP listener beside the stdio transport.
//
// # Usage
//
//	srv := server.New(cfg, logger)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server stopped", zap.Error(err))
//	}
package server
