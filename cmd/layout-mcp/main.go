// Command layout-mcp exposes the correction pass and the visual critic as
// MCP tools over stdio, so a generating model can check its own layouts
// before returning them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/ai-layout-corrector/internal/brandkit"
	"github.com/fpang/ai-layout-corrector/internal/logging"
)

var version = "dev"

func main() {
	// stdout carries the protocol, so logs must stay on stderr.
	logging.Init()

	kit := brandkit.Default()
	if path := os.Getenv("LAYOUT_BRAND_KIT"); path != "" {
		loaded, err := brandkit.Load(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to load brand kit")
		}
		kit = loaded
	}

	server := mcp.NewServer(&mcp.Implementation{Name: "layout-corrector", Version: version}, nil)
	newTools(kit).register(server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Str("brand", kit.Name).Str("version", version).Msg("Layout MCP server starting on stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
