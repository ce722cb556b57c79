package study

import (
	"strings"

	"github.com/anatolykoptev/go_study/internal/engine"
)

// DefaultTrustedDomains are the reference and education sites whose articles
// are kept.
var DefaultTrustedDomains = []string{
	"researchgate.net",
	"arxiv.org",
	"geeksforgeeks.org",
	"tutorialspoint.com",
	"w3schools.com",
	"javatpoint.com",
	"freecodecamp.org",
	"coursera.org",
	"udacity.com",
	"udemy.com",
	"khanacademy.org",
	"codecademy.com",
	"sciencedirect.com",
	"springer.com",
	"ieee.org",
	"acm.org",
	"nature.com",
	"nptel.ac.in",
	"cs50.harvard.edu",
	"ibm.com",
	"developer.mozilla.org",
	"stackoverflow.com",
	"medium.com",
	"towardsdatascience.com",
	"dataquest.io",
	"machinelearningmastery.com",
	"analyticsvidhya.com",
	"paperswithcode.com",
	"scholar.google.com",
	"semanticscholar.org",
	"plos.org",
}

// AllowList matches source domains against a fixed set of trusted domains.
// A host matches an entry when it equals it or is a subdomain of it
// ("spectrum.ieee.org" matches "ieee.org"; "notieee.org" does not).
type AllowList struct {
	domains []string
}

// NewAllowList normalizes domains (lowercase, no scheme, no "www.") and
// drops blanks. An empty input yields DefaultTrustedDomains.
func NewAllowList(domains []string) *AllowList {
	if len(domains) == 0 {
		domains = DefaultTrustedDomains
	}
	seen := make(map[string]bool, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		h := engine.HostOf(d)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	return &AllowList{domains: out}
}

// Allows reports whether displayLink (a host or URL) is trusted.
func (a *AllowList) Allows(displayLink string) bool {
	host := engine.HostOf(displayLink)
	if host == "" {
		return false
	}
	for _, d := range a.domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// Filter keeps the trusted results, in order.
func (a *AllowList) Filter(results []engine.WebResult) []Resource {
	var out []Resource
	for _, r := range results {
		src := r.DisplayLink
		if src == "" {
			src = r.Link
		}
		if !a.Allows(src) {
			continue
		}
		out = append(out, Resource{Title: r.Title, Link: r.Link, Snippet: r.Snippet})
	}
	return out
}

// Domains returns a copy of the normalized domain list.
func (a *AllowList) Domains() []string {
	return append([]string(nil), a.domains...)
}
