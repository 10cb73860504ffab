// Package utils provides common utility functions.
package utils

// UserAgent identifies this tool to remote APIs.
const UserAgent = "sheetsync/1.0"
