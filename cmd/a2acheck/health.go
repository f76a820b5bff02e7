package main

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"
)

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the agent health endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			body, err := get(opts, "/health")
			if err != nil {
				printError(cmd.ErrOrStderr(), err.Error())
				return err
			}
			if strings.TrimSpace(string(body)) != "OK" {
				err := fmt.Errorf("expected body OK, got %q", body)
				printError(cmd.ErrOrStderr(), err.Error())
				return err
			}
			printSuccess(out, "health check passed")
			return nil
		},
	}
}

func newCardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "card",
		Short: "Fetch and check the agent card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			body, err := get(opts, "/.well-known/agent.json")
			if err != nil {
				printError(cmd.ErrOrStderr(), err.Error())
				return err
			}
			var card map[string]jsontext.Value
			if err := json.Unmarshal(body, &card); err != nil {
				printError(cmd.ErrOrStderr(), "agent card is not a JSON object")
				return fmt.Errorf("decoding agent card: %w", err)
			}
			for _, field := range []string{"name", "url"} {
				if _, ok := card[field]; !ok {
					err := fmt.Errorf("agent card is missing %q", field)
					printError(cmd.ErrOrStderr(), err.Error())
					return err
				}
			}
			s, err := indent(jsontext.Value(body))
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
			printSuccess(out, "agent card is valid")
			return nil
		},
	}
}

func get(opts *options, path string) ([]byte, error) {
	url := strings.TrimSuffix(opts.baseURL, "/") + path
	resp, err := opts.client().Get(url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: expected status 200, got %d", url, resp.StatusCode)
	}
	return body, nil
}
