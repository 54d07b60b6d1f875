package ai

import (
	"context"
	"errors"
	"log"
	"net"
	"strings"
)

// Provider is a named Interpreter in a fallback chain.
type Provider struct {
	Name        string
	Interpreter Interpreter
}

// FallbackService tries each provider in order and ends with the keyword
// interpreter, so Interpret always produces a result.
type FallbackService struct {
	providers []Provider
	keyword   *KeywordInterpreter
}

// NewFallbackService builds a chain; providers with a nil Interpreter are skipped.
func NewFallbackService(providers ...Provider) *FallbackService {
	f := &FallbackService{keyword: NewKeywordInterpreter()}
	for _, p := range providers {
		if p.Interpreter != nil {
			f.providers = append(f.providers, p)
		}
	}
	return f
}

// Providers lists the chain, keyword last.
func (f *FallbackService) Providers() []string {
	names := make([]string, 0, len(f.providers)+1)
	for _, p := range f.providers {
		names = append(names, p.Name)
	}
	return append(names, string(ProviderKeyword))
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"429",
		"quota",
		"rate limit",
		"too many requests",
		"resource_exhausted",
		"resource exhausted",
	} {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}
	return false
}

// Interpret implements Interpreter. Provider errors, including unparseable
// answers, move on to the next provider.
func (f *FallbackService) Interpret(ctx context.Context, text string) (*CommandResult, error) {
	for _, p := range f.providers {
		if ctx.Err() != nil {
			break
		}
		result, err := p.Interpreter.Interpret(ctx, text)
		if err == nil {
			log.Printf("[AI] %s interpreted command as %s", p.Name, result.Action)
			return result, nil
		}

		switch {
		case isQuotaError(err):
			log.Printf("[AI] %s quota exhausted: %v, falling back", p.Name, err)
		case isConnectionError(err):
			log.Printf("[AI] %s connection failed: %v, falling back", p.Name, err)
		default:
			log.Printf("[AI] %s error: %v, falling back", p.Name, err)
		}
	}
	return f.keyword.Interpret(ctx, text)
}
