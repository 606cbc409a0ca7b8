package lib

import "errors"

var ErrAWSUnavailable = errors.New("aws client could not be initialized")
