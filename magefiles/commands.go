package main

// Binary names.
const (
	binGo   = "go"
	binLint = "golangci-lint"
)

// Build layout.
const (
	modulePath = "github.com/mesh-intelligence/farmbook"
	binaryName = "farmbook"
	binaryDir  = "bin"
	cmdDir     = "./cmd/farmbook"
)
