package main

import (
	"context"
	"os"
	"testing"

	"rsc.io/script"
	"rsc.io/script/scripttest"
)

// TestScripts runs every cmd/reposync/testdata/*.txt script against a
// built reposync binary, the same way rsc.io/script exercises its own
// command-line behavior in its source tree.
func TestScripts(t *testing.T) {
	engine := script.NewEngine()
	ctx := context.Background()
	env := []string{"PATH=" + os.Getenv("PATH")}
	scripttest.Test(t, ctx, engine, env, "testdata/*.txt")
}
