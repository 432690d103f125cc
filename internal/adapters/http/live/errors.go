package live

import "errors"

// ErrThrottled is reported to viewers clicking faster than their rate limit.
var ErrThrottled = errors.New("too many clicks")
