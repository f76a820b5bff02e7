package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
)

func newSendCmd(opts *options) *cobra.Command {
	var (
		text    string
		rpcPath string
	)
	cmd := &cobra.Command{
		Use:   "send [file|-]",
		Short: "Send a JSON-RPC request to an agent and print the result",
		Long:  "send posts a request read from a file or stdin, or a message/send request built from --text, and decodes the response.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				req a2a.RequestEnvelope
				err error
			)
			if text != "" {
				req = textRequest(text)
			} else {
				data, err := readPayload(cmd.InOrStdin(), args, opts.format)
				if err != nil {
					return err
				}
				if req, err = decodeRequest(cmd, data); err != nil {
					return err
				}
			}
			resp, err := send(opts, rpcPath, req)
			if err != nil {
				printError(cmd.ErrOrStderr(), err.Error())
				return err
			}
			return printResponse(cmd.OutOrStdout(), req, resp)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "send a message/send request with this text instead of a file")
	cmd.Flags().StringVar(&rpcPath, "path", "/a2a", "JSON-RPC endpoint path")
	return cmd
}

func textRequest(text string) a2a.RequestEnvelope {
	msg := a2a.NewMessage(a2a.RoleUser, a2a.TextPart(text))
	return a2a.NewRequest("a2acheck-"+uuid.NewString(), a2a.MethodMessageSend,
		a2a.MessageSendParams(a2a.NewMessageParams(msg)))
}

func send(opts *options, rpcPath string, req a2a.RequestEnvelope) (a2a.ResponseEnvelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return a2a.ResponseEnvelope{}, fmt.Errorf("encoding request: %w", err)
	}
	url := strings.TrimSuffix(opts.baseURL, "/") + rpcPath

	httpResp, err := opts.client().Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return a2a.ResponseEnvelope{}, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return a2a.ResponseEnvelope{}, fmt.Errorf("reading response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return a2a.ResponseEnvelope{}, fmt.Errorf("expected status 200, got %d: %s", httpResp.StatusCode, data)
	}
	resp, err := a2a.ParseResponse(data)
	if err != nil {
		return a2a.ResponseEnvelope{}, fmt.Errorf("invalid response: %w", err)
	}
	return resp, nil
}

func printResponse(w io.Writer, req a2a.RequestEnvelope, resp a2a.ResponseEnvelope) error {
	printHeader(w, "Response")
	printField(w, "id", resp.ID)
	if resp.ID != req.ID {
		printError(w, fmt.Sprintf("response id %q does not match request id %q", resp.ID, req.ID))
	}
	if err := resp.Validate(); err != nil {
		printError(w, err.Error())
		return err
	}

	rpcErr, err := resp.RPCError()
	if err != nil {
		printError(w, err.Error())
		return fmt.Errorf("invalid error object: %w", err)
	}
	if rpcErr != nil {
		printField(w, "code", rpcErr.Code)
		printField(w, "message", rpcErr.Message)
		if rpcErr.Data != nil {
			if s, err := indent(rpcErr.Data); err == nil {
				fmt.Fprintln(w, s)
			}
		}
		printError(w, "agent returned an error")
		return errors.New("agent returned an error")
	}

	result := resp.Result
	printField(w, "task", result.ID)
	printField(w, "context", result.ContextID)
	printField(w, "state", result.Status.State)
	if result.Status.Message != nil {
		fmt.Fprintln(w, result.Status.Message.Text("\n"))
	}
	for _, a := range result.Artifacts {
		printField(w, "artifact", fmt.Sprintf("%s (%s, %d parts)", a.Name, a.ArtifactID, len(a.Parts)))
	}
	if result.Status.State != a2a.StateCompleted {
		printError(w, "task did not complete")
		return fmt.Errorf("task ended in state %q", result.Status.State)
	}
	printSuccess(w, "task completed")
	return nil
}
