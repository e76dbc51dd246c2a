package main

import (
	"errors"

	"github.com/brightloom/promptbridge/normalize"
	"github.com/brightloom/promptbridge/spec"
)

// exitCodeFor derives the process exit code from an error's category, per
// validation=2, provider-not-found=3, network=4, auth=5, rate-limit=6,
// timeout=7, internal=1.
func exitCodeFor(err error) int {
	var cerr *normalize.ClassifiedError
	if errors.As(err, &cerr) {
		switch cerr.Classification {
		case normalize.ClassAuthentication:
			return 5
		case normalize.ClassNetwork:
			return 4
		case normalize.ClassRateLimit:
			return 6
		}
	}

	var serr *spec.Error
	if !errors.As(err, &serr) {
		return 1
	}

	switch serr.Kind {
	case spec.KindValidation, spec.KindSchemaValidation, spec.KindStrictnessViolation:
		return 2
	case spec.KindUnsupported:
		return 3
	case spec.KindHTTP:
		return 4
	case spec.KindRateLimit:
		return 6
	case spec.KindTimeout:
		return 7
	default:
		return 1
	}
}
