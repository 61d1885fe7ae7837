// Package main provides the sitedigest CLI.
package main

func main() {
	Execute()
}
