package main

import "testing"

func TestBareInvocationServes(t *testing.T) {
	root := rootCommand()
	if root.DefaultCommand != "serve" {
		t.Fatalf("DefaultCommand = %q, want serve", root.DefaultCommand)
	}
	found := false
	for _, c := range root.Commands {
		if c.Name == root.DefaultCommand {
			found = true
		}
	}
	if !found {
		t.Fatalf("default command %q is not registered", root.DefaultCommand)
	}
}
