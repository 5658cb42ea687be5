// Package validate provides the validator types consumed by form controls and
// the composition rules that merge validators from multiple sources into a
// single predicate.
package validate

import (
	"context"
	"errors"
	"sync"
)

// Errors maps named validation failures to arbitrary detail payloads. A nil
// map means the checked value is acceptable.
type Errors map[string]any

// Validator inspects a candidate value and reports named failures. Returning
// nil means the value passes.
type Validator func(value any) Errors

// AsyncValidator is a validator whose verdict is produced asynchronously,
// typically after consulting an external system. A non-nil error marks the
// check itself as failed (distinct from the value being invalid); callers
// treat it as an invalid outcome, never as a fault to propagate.
type AsyncValidator func(ctx context.Context, value any) (Errors, error)

// Compose merges validators into a single predicate. An empty or all-nil list
// composes to nil so callers can skip invocation entirely. The composite runs
// every validator in list order and unions the resulting error maps; on key
// collision the later validator wins.
func Compose(validators []Validator) Validator {
	present := presentValidators(validators)
	if len(present) == 0 {
		return nil
	}
	return func(value any) Errors {
		var merged Errors
		for _, v := range present {
			merged = mergeErrors(merged, v(value))
		}
		return merged
	}
}

// ComposeAsync merges async validators into a single deferred predicate. An
// empty or all-nil list composes to nil. The composite starts every member,
// waits for all of them to complete, and unions their error maps in list
// order (later wins on collision). Member rejections are joined into the
// composite's returned error.
func ComposeAsync(validators []AsyncValidator) AsyncValidator {
	present := presentAsyncValidators(validators)
	if len(present) == 0 {
		return nil
	}
	return func(ctx context.Context, value any) (Errors, error) {
		results := make([]Errors, len(present))
		failures := make([]error, len(present))

		var wg sync.WaitGroup
		for i, v := range present {
			wg.Add(1)
			go func(i int, v AsyncValidator) {
				defer wg.Done()
				results[i], failures[i] = v(ctx, value)
			}(i, v)
		}
		wg.Wait()

		var merged Errors
		for _, res := range results {
			merged = mergeErrors(merged, res)
		}
		return merged, errors.Join(failures...)
	}
}

func presentValidators(validators []Validator) []Validator {
	out := make([]Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func presentAsyncValidators(validators []AsyncValidator) []AsyncValidator {
	out := make([]AsyncValidator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

func mergeErrors(dst, src Errors) Errors {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(Errors, len(src))
	}
	for key, detail := range src {
		dst[key] = detail
	}
	return dst
}
