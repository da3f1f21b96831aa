package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	lfmcp "github.com/lanefall/lanefall/internal/mcp"
)

func main() {
	squadrons := flag.String("squadrons", "cards.yaml", "path to squadrons YAML file")
	port := flag.String("port", "7779", "TCP port for the human player connection")
	flag.Parse()

	lfmcp.SetSquadronFile(*squadrons)
	lfmcp.SetPort(*port)

	s := server.NewMCPServer("lanefall", "1.0.0")
	lfmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
