package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/goliatone/go-formbind/pkg/bind"
	"github.com/goliatone/go-formbind/pkg/forms"
	"github.com/goliatone/go-formbind/pkg/validate"
)

// Session drives a bound form interactively: each registered leaf binding is
// prompted with its current model value as the default, and answers enter
// the form through the same view-originated path element events use.
type Session struct {
	driver PromptDriver
	form   *bind.FormBinding
}

// NewSession pairs a prompt driver with a bound form.
func NewSession(driver PromptDriver, form *bind.FormBinding) (*Session, error) {
	if driver == nil {
		return nil, errors.New("tui: prompt driver is required")
	}
	if form == nil {
		return nil, errors.New("tui: form binding is required")
	}
	return &Session{driver: driver, form: form}, nil
}

// Run prompts once for every registered leaf, pushes the answers into the
// model, runs a detection pass, and reports the resulting validity.
func (s *Session) Run(ctx context.Context) error {
	for _, binding := range s.form.Controls() {
		if err := s.promptBinding(ctx, binding); err != nil {
			return err
		}
	}
	s.form.Detect()
	return s.report(ctx)
}

func (s *Session) promptBinding(ctx context.Context, binding *bind.ControlBinding) error {
	control := binding.Control()
	if control == nil || control.Disabled() {
		return nil
	}
	path, err := binding.Path()
	if err != nil {
		return err
	}

	answer, err := s.promptValue(ctx, path.String(), control.Value())
	if err != nil {
		return err
	}
	binding.ViewValueChanged(answer)
	return nil
}

// promptValue picks the prompt shape from the model value's type: booleans
// confirm, numbers parse (unparsable input becomes NaN, matching the numeric
// accessor), everything else is free text.
func (s *Session) promptValue(ctx context.Context, label string, current any) (any, error) {
	switch v := current.(type) {
	case bool:
		return s.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: v})
	case float64:
		def := ""
		if !math.IsNaN(v) {
			def = strconv.FormatFloat(v, 'f', -1, 64)
		}
		raw, err := s.driver.Input(ctx, InputConfig{Message: label, Default: def})
		if err != nil {
			return nil, err
		}
		num, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			return math.NaN(), nil
		}
		return num, nil
	default:
		def, _ := current.(string)
		return s.driver.Input(ctx, InputConfig{Message: label, Default: def})
	}
}

func (s *Session) report(ctx context.Context) error {
	status := s.form.Status()
	if err := s.driver.Info(ctx, fmt.Sprintf("form is %s", status)); err != nil {
		return err
	}
	if status != forms.StatusInvalid {
		return nil
	}
	for _, binding := range s.form.Controls() {
		control := binding.Control()
		if control == nil || control.Status() != forms.StatusInvalid {
			continue
		}
		path, err := binding.Path()
		if err != nil {
			continue
		}
		msg := fmt.Sprintf("%s: %s", path.String(), describeErrors(control.Errors()))
		if err := s.driver.Info(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func describeErrors(errs validate.Errors) string {
	if len(errs) == 0 {
		return "invalid"
	}
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := ""
	for i, key := range keys {
		if i > 0 {
			out += ", "
		}
		out += key
	}
	return out
}
