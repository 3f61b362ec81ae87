package utils

import "strings"

// technical prefixes the POS system puts in front of product names
var removablePrefixes = map[string]bool{
	"A":  true,
	"B":  true,
	"AA": true,
	"Br": true,
	"W":  true,
}

// CleanName strips one leading technical prefix token ("A Cola" -> "Cola").
// A name made of a single token is kept as is.
func CleanName(name string) string {
	parts := strings.Fields(name)
	if len(parts) > 1 && removablePrefixes[parts[0]] {
		return strings.Join(parts[1:], " ")
	}
	return strings.TrimSpace(name)
}
