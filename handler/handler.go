package handler

import (
	"context"
	"errors"
	"fmt"

	"formpost/backend"
	"formpost/config"
	"formpost/display"
	"formpost/manager"
)

// EndpointNotDefined is displayed when a form has no endpoint configured.
const EndpointNotDefined = "Error: Endpoint not defined for the form."

var (
	ErrNoInput      = errors.New("form has no input source")
	ErrNoDisplay    = errors.New("form has no display target")
	ErrNoClient     = errors.New("form has no backend client")
	ErrFormNotFound = errors.New("form not found")
)

// Form is a configured form bound to its input, display target and backend.
type Form struct {
	Name string

	store    *config.Store
	input    InputSource
	display  display.Target
	client   *backend.Client
	inFlight *manager.InFlightManager
}

// Bind locates the form called name in store, the first form when name is
// empty, and binds it. A store without any form yields a nil Form and no
// error: there is nothing to bind. A missing input, display or client is a
// setup error.
func Bind(store *config.Store, name string, input InputSource, target display.Target, client *backend.Client) (*Form, error) {
	formConfig, ok := store.Form(name)
	if !ok {
		if name == "" {
			log.Debug("No form configured, nothing to bind")
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, name)
	}

	switch {
	case input == nil:
		return nil, fmt.Errorf("form %s: %w", formConfig.Name, ErrNoInput)
	case target == nil:
		return nil, fmt.Errorf("form %s: %w", formConfig.Name, ErrNoDisplay)
	case client == nil:
		return nil, fmt.Errorf("form %s: %w", formConfig.Name, ErrNoClient)
	}

	log.Debugf("Bound form %s", formConfig.Name)
	return &Form{
		Name:    formConfig.Name,
		store:   store,
		input:   input,
		display: target,
		client:  client,
	}, nil
}

// WithInFlightManager caps overlapping submissions of the form.
func (f *Form) WithInFlightManager(m *manager.InFlightManager) *Form {
	f.inFlight = m
	return f
}

// Submit sends the current input to the endpoint currently configured for
// the form and shows the outcome on the display target. Every failure ends up
// on the display target; Submit returns the outcome it displayed.
func (f *Form) Submit(ctx context.Context) display.Outcome {
	payload, err := f.input.Value()
	if err != nil {
		return f.fail("", backend.Failure(fmt.Errorf("read input: %w", err)))
	}

	endpoint := f.store.Endpoint(f.Name)
	if endpoint == "" {
		return f.fail(endpoint, display.Outcome{Text: EndpointNotDefined, Status: display.Failure})
	}

	if f.inFlight != nil {
		release, err := f.inFlight.Acquire(f.Name)
		if err != nil {
			return f.fail(endpoint, backend.Failure(err))
		}
		defer release()
	}

	outcome := f.client.Send(ctx, endpoint, payload, f.display)
	logSubmission(f.Name, endpoint, outcome)
	return outcome
}

func (f *Form) fail(endpoint string, outcome display.Outcome) display.Outcome {
	f.display.Show(outcome)
	logSubmission(f.Name, endpoint, outcome)
	return outcome
}
