package server

import (
	"fmt"
	"strings"
)

// displayServerInfo prints the endpoint table and the protection settings
func (s *Server) displayServerInfo() {
	fmt.Println("Available endpoints:")
	for _, rt := range s.routes() {
		method, path, _ := strings.Cut(rt.pattern, " ")
		note := ""
		if rt.public {
			note = " (public)"
		}
		fmt.Printf("  %-4s %-31s %s%s\n", method, path, rt.summary, note)
	}

	for _, line := range s.protectionSummary() {
		fmt.Println(line)
	}
}

// protectionSummary describes auth, size limit, rate limit and store state
func (s *Server) protectionSummary() []string {
	var lines []string

	if n := len(s.APIKeys); n > 0 {
		lines = append(lines, fmt.Sprintf("API authentication: ENABLED (%d keys configured)", n))
	} else {
		lines = append(lines, "API authentication: DISABLED, endpoints are publicly accessible")
	}

	if s.MaxRequestSize > 0 {
		lines = append(lines, fmt.Sprintf("Request size limit: %d bytes (%.1f MB)",
			s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024)))
	} else {
		lines = append(lines, "Request size limit: DISABLED")
	}

	if rl := s.RateLimit; rl != nil && rl.Enabled {
		var keys []string
		if rl.ByAPIKey {
			keys = append(keys, "API key")
		}
		if rl.ByIP {
			keys = append(keys, "client IP")
		}
		lines = append(lines, fmt.Sprintf("Rate limiting: ENABLED (%d requests/min, burst %d, per %s)",
			rl.RequestsPerMin, rl.BurstCapacity, strings.Join(keys, " then ")))
	} else {
		lines = append(lines, "Rate limiting: DISABLED")
	}

	if s.deps.Store != nil {
		lines = append(lines, fmt.Sprintf("Profile store: ENABLED (%s)", s.AppConfig.Store.Path))
	} else {
		lines = append(lines, "Profile store: DISABLED")
	}
	return lines
}
