package biometric

import "errors"

// ErrNoFeatures signals that a sample yielded no usable template.
var ErrNoFeatures = errors.New("no biometric features detected")
