package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/a2a-wire/internal/a2a"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Decode a JSON-RPC request offline and print the normalized form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}
}

func runValidate(cmd *cobra.Command, args []string, opts *options) error {
	out := cmd.OutOrStdout()

	data, err := readPayload(cmd.InOrStdin(), args, opts.format)
	if err != nil {
		return err
	}
	req, err := decodeRequest(cmd, data)
	if err != nil {
		return err
	}

	printHeader(out, "Request")
	printField(out, "id", req.ID)
	printField(out, "method", req.Method)
	printField(out, "params", req.Params.Kind)
	for _, reason := range req.Params.Rejected {
		printField(out, "not matched", reason)
	}
	normalized, err := indent(req)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	fmt.Fprintln(out, normalized)
	printSuccess(out, "request is valid")
	return nil
}

// decodeRequest reports validation failures the way the server would map them.
func decodeRequest(cmd *cobra.Command, data []byte) (a2a.RequestEnvelope, error) {
	req, err := a2a.ParseRequest(data)
	if err != nil {
		rpcErr := a2a.ErrorFromValidation(err)
		printError(cmd.ErrOrStderr(), err.Error())
		printField(cmd.ErrOrStderr(), "json-rpc error", fmt.Sprintf("%d %s", rpcErr.Code, rpcErr.Message))
		return a2a.RequestEnvelope{}, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}
