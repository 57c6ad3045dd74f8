// Package server exposes the invoice normalization pipeline as a set of
// tools over a JSON-RPC 2.0 stdio protocol.
//
// # Protocol
//
// The server communicates over stdio, one JSON document per line:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses on stdout
//
// Supported methods:
//   - initialize: protocol handshake
//   - tools/list: enumerate available tools
//   - tools/call: execute a tool with arguments
//   - ping: health check
//
// # Available Tools
//
// Processing:
//   - invoice_process: run the full optimal pipeline on a photo
//   - invoice_process_custom: run the pipeline with per-stage tuning control
//
// Metadata and diagnostics:
//   - image_info: dimensions, sniffed format, file size
//   - region_detect: all strategy candidates plus the selection outcome
//   - region_preview: photo with the detected region outlined
//   - region_colors: dominant colors of the detected region
//
// # Image Caching
//
// Photos referenced by path are decoded once into an in-memory cache and
// reused across tool calls; input validation (size limit, format sniffing)
// applies at cache-fill time exactly as it does for base64 input.
//
// # Error Handling
//
// Tool failures are JSON-RPC errors with code -32000 and a machine-readable
// class in the data field, one of: size_limit, unsupported_format,
// invalid_image, invalid_config, region_out_of_bounds, internal. The class
// mirrors the pipeline's error sentinels, so transport clients can branch
// the same way in-process callers branch with errors.Is.
package server
