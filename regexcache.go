package tokregex

import (
	"sync"

	"github.com/dlclark/regexp2"
	"golang.org/x/sync/singleflight"
)

// regexCache holds one compiled regexp2.Regexp per distinct source text,
// shared across every Pattern compiled in the process: the same value
// regex (e.g. a date or an amount shape) tends to recur across many
// independently authored patterns, and regexp2 compilation is not free.
// singleflight collapses concurrent Compile calls racing on the same new
// source down to a single compile.
var (
	regexCache sync.Map
	regexGroup singleflight.Group
)

func compileCachedRegex(source string) (*regexp2.Regexp, error) {
	if v, ok := regexCache.Load(source); ok {
		return v.(*regexp2.Regexp), nil
	}
	v, err, _ := regexGroup.Do(source, func() (interface{}, error) {
		if v, ok := regexCache.Load(source); ok {
			return v, nil
		}
		re, err := regexp2.Compile(source, regexp2.None)
		if err != nil {
			return nil, err
		}
		regexCache.Store(source, re)
		return re, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*regexp2.Regexp), nil
}
