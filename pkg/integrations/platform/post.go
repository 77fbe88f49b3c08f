package platform

import (
	"bufio"
	"strings"

	clawerr "github.com/clawnch/clawctl/pkg/errors"
)

// Trigger is the first line of every launch post.
const Trigger = "!clawnch"

// BuildLaunchPost renders p as launch post text: the trigger line, the
// required fields, any optional fields that are set, then the fee split.
// MoltenMatchID is not part of the post format and is never emitted.
func BuildLaunchPost(p TokenLaunchParams) string {
	lines := []string{
		Trigger,
		"name: " + p.Name,
		"symbol: " + p.Symbol,
		"wallet: " + p.Wallet,
		"description: " + p.Description,
	}
	optional := []struct{ key, val string }{
		{"image", p.Image},
		{"website", p.Website},
		{"twitter", p.Twitter},
		{"burnTxHash", p.BurnTxHash},
		{"moltenIntents", p.MoltenIntents},
	}
	for _, f := range optional {
		if f.val != "" {
			lines = append(lines, f.key+": "+f.val)
		}
	}
	if p.FeeSplit != nil {
		lines = append(lines, "feeSplit:")
		for _, s := range p.FeeSplit {
			lines = append(lines, "  - wallet: "+s.Wallet+", share: "+s.Share+", role: "+s.Role)
		}
	}
	return strings.Join(lines, "\n")
}

// ParseLaunchPost reads post text produced by [BuildLaunchPost]. Unknown
// keys are ignored. It does not validate field values; call
// [TokenLaunchParams.Validate] for that.
func ParseLaunchPost(text string) (TokenLaunchParams, error) {
	var p TokenLaunchParams
	sc := bufio.NewScanner(strings.NewReader(text))

	seenTrigger := false
	inFeeSplit := false
	for sc.Scan() {
		raw := sc.Text()
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if !seenTrigger {
			if !strings.EqualFold(line, Trigger) {
				return p, clawerr.New(clawerr.ErrCodeMissingTrigger, "post must start with %s", Trigger)
			}
			seenTrigger = true
			continue
		}

		if inFeeSplit && strings.HasPrefix(line, "-") {
			entry, err := parseFeeSplitLine(strings.TrimSpace(strings.TrimPrefix(line, "-")))
			if err != nil {
				return p, err
			}
			p.FeeSplit = append(p.FeeSplit, entry)
			continue
		}
		inFeeSplit = false

		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "name":
			p.Name = val
		case "symbol":
			p.Symbol = val
		case "wallet":
			p.Wallet = val
		case "description":
			p.Description = val
		case "image":
			p.Image = val
		case "website":
			p.Website = val
		case "twitter":
			p.Twitter = val
		case "burnTxHash":
			p.BurnTxHash = val
		case "moltenIntents":
			p.MoltenIntents = val
		case "feeSplit":
			inFeeSplit = true
			if p.FeeSplit == nil {
				p.FeeSplit = []FeeSplitEntry{}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return p, err
	}
	if !seenTrigger {
		return p, clawerr.New(clawerr.ErrCodeMissingTrigger, "post must start with %s", Trigger)
	}
	return p, nil
}

// parseFeeSplitLine parses "wallet: W, share: S, role: R".
func parseFeeSplitLine(s string) (FeeSplitEntry, error) {
	var e FeeSplitEntry
	for _, part := range strings.Split(s, ",") {
		key, val, ok := strings.Cut(part, ":")
		if !ok {
			return e, clawerr.New(clawerr.ErrCodeInvalidTokenDetails, "malformed fee split entry %q", s)
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "wallet":
			e.Wallet = val
		case "share":
			e.Share = val
		case "role":
			e.Role = val
		}
	}
	return e, nil
}

// ParseFeeSplitFlag parses the CLI shorthand "wallet:share:role".
func ParseFeeSplitFlag(s string) (FeeSplitEntry, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return FeeSplitEntry{}, clawerr.New(clawerr.ErrCodeInvalidInput, "fee split %q must be wallet:share:role", s)
	}
	e := FeeSplitEntry{
		Wallet: strings.TrimSpace(parts[0]),
		Share:  strings.TrimSpace(parts[1]),
		Role:   strings.TrimSpace(parts[2]),
	}
	if err := clawerr.ValidateAddress("fee split wallet", e.Wallet); err != nil {
		return FeeSplitEntry{}, err
	}
	return e, nil
}
