package integrations_test

import (
	"fmt"

	"github.com/clawnch/clawctl/pkg/integrations"
)

func ExampleNormalizeBaseURL() {
	fmt.Println(integrations.NormalizeBaseURL("https://clawn.ch/"))
	fmt.Println(integrations.NormalizeBaseURL("  http://localhost:3000//  "))
	// Output:
	// https://clawn.ch
	// http://localhost:3000
}

func ExampleQuery() {
	q := &integrations.Query{}
	q.SetInt("limit", 10).SetInt("offset", 0).Set("source", "moltbook").Set("agent", "")
	fmt.Println(q.Encode())
	// Output:
	// ?limit=10&source=moltbook
}

func ExampleURLEncode() {
	fmt.Println(integrations.URLEncode("match/42"))
	fmt.Println(integrations.URLEncode("a b"))
	// Output:
	// match%2F42
	// a%20b
}
