// Flashgate is the study-sharper flashcard gateway.
//
// It runs the flashcard proxy in front of the study backend and drives the
// flashcard client library from the command line.
//
// Usage:
//
//	# Start the proxy with the default configuration
//	flashgate serve
//
//	# Point the proxy at another backend and reload on config changes
//	flashgate serve --backend http://localhost:8000 --watch
//
//	# List flashcard sets through a running proxy
//	flashgate sets list
//
//	# Create a set with two cards and print the practice path
//	flashgate sets create --title Biology --card "Cell::Basic unit of life" \
//	    --card "DNA::Genetic material" --practice
//
//	# Show version information
//	flashgate version
package main

func main() {
	Execute()
}
