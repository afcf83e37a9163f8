package inspection

import "errors"

var ErrRecordNotFound = errors.New("inspection record not found")
