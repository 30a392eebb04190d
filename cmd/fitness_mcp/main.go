// Package main runs the fitness MCP server over stdio. It reads data from a
// running fitness API on behalf of one user.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ankush-patel1/Fitness/internal/fitness/client"
	fitnessmcp "github.com/Ankush-patel1/Fitness/internal/fitness/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

const version = "1.0.0"

func main() {
	apiURL := flag.String("api", envOr("FITNESS_API_URL", "http://localhost:9000"), "fitness API base URL")
	username := flag.String("username", os.Getenv("FITNESS_USERNAME"), "account username, used when no token is set")
	flag.Parse()

	// stdout carries the MCP protocol
	log.SetOutput(os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var opts []client.Option
	if token := os.Getenv("FITNESS_ACCESS_TOKEN"); token != "" {
		opts = append(opts, client.WithAccessToken(token))
	} else if token := os.Getenv("FITNESS_SESSION_TOKEN"); token != "" {
		opts = append(opts, client.WithSessionToken(token))
	}

	apiClient, err := client.New(*apiURL, opts...)
	if err != nil {
		log.Fatalf("api client: %s", err)
	}

	if len(opts) == 0 {
		if *username == "" {
			log.Fatalln("no credentials: set FITNESS_ACCESS_TOKEN, FITNESS_SESSION_TOKEN or -username with FITNESS_PASSWORD")
		}
		if _, err := apiClient.Login(ctx, *username, os.Getenv("FITNESS_PASSWORD")); err != nil {
			log.Fatalf("login: %s", err)
		}
	}

	server := fitnessmcp.NewServer(apiClient, version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
