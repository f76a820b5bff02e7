package main

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	baseURL string
	timeout time.Duration
	format  string
}

func (o *options) client() *http.Client {
	return &http.Client{Timeout: o.timeout}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "a2acheck",
		Short:         "Validate A2A JSON-RPC payloads and probe agents",
		Long:          "a2acheck decodes A2A requests the same way the agent server does, sends them to a running agent and checks its health and agent card.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "base URL of the agent")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "HTTP request timeout")
	root.PersistentFlags().StringVar(&opts.format, "format", "auto", "input format: auto, json, or yaml")

	root.AddCommand(
		newValidateCmd(opts),
		newSendCmd(opts),
		newHealthCmd(opts),
		newCardCmd(opts),
	)
	return root
}
