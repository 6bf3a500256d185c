package render

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	fragmentPolicyOnce sync.Once
	fragmentPolicy     *bluemonday.Policy
)

// fragmentSanitizer returns the policy applied to html_before/html_after when
// the form opts into sanitizing. UGC keeps formatting, links and images while
// stripping scripts, handlers and styles.
func fragmentSanitizer() *bluemonday.Policy {
	fragmentPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AllowAttrs("class").Globally()
		fragmentPolicy = policy
	})
	return fragmentPolicy
}

func verbatim(fragment string) string {
	return fragment
}

func sanitizeFragment(fragment string) string {
	return fragmentSanitizer().Sanitize(fragment)
}
