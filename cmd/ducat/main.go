// Package main provides the ducat CLI, a lightweight SQL transformation
// orchestrator on top of DuckDB.
package main

func main() {
	Execute()
}
