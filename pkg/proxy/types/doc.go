// Package types holds the JSON bodies the proxy writes itself. Success
// bodies from the backend are relayed byte for byte and have no type here.
package types
