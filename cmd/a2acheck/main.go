// Command a2acheck validates A2A JSON-RPC payloads offline and probes running agents.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
