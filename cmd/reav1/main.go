// Package main provides the CLI entry point for the re-encoding pipeline.
package main

func main() {
	execute()
}
