package bridge

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

// maybeSanitize strips active content from the HTML when the descriptor's
// options ask for it. Most embedders trust their extension HTML and leave
// this off; hosts rendering third-party markup opt in.
func (b *Bridge) maybeSanitize(html string) string {
	if !b.descriptor.Options.SanitizeHTML {
		return html
	}
	sanitizerOnce.Do(func() {
		sanitizer = bluemonday.UGCPolicy()
		sanitizer.AllowDataURIImages()
	})
	return sanitizer.Sanitize(html)
}
