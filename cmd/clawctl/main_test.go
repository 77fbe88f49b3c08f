package main

import (
	"errors"
	"fmt"
	"testing"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing wallet", clawerr.New(clawerr.ErrCodeWalletRequired, "set PRIVATE_KEY"), exitUsage},
		{"bad amount", fmt.Errorf("burn: %w", clawerr.New(clawerr.ErrCodeInvalidAmount, "x")), exitUsage},
		{"api error", &clawerr.APIError{Status: 409, Code: clawerr.ErrCodeTickerTaken}, exitFailure},
		{"chain error", clawerr.New(clawerr.ErrCodeChain, "reverted"), exitFailure},
		{"plain", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
