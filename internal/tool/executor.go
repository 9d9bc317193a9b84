package tool

import (
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/bea-tech/site-assistant/internal/model"
)

// StatusSuccess is the status reported for every accepted booking. The
// executor simulates fulfillment; no calendar system is contacted.
const StatusSuccess = "SUCCESS"

// MissingFieldsError reports which required booking fields the
// completion service failed to collect. The controller uses it to
// re-prompt instead of interpolating blanks into the confirmation.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required booking fields: %v", e.Fields)
}

// Executor simulates appointment fulfillment. Execute is a pure
// function from request to result and never fails for validated input.
type Executor struct{}

// NewExecutor creates an appointment executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Validate checks that every required booking field is present. It
// returns a *MissingFieldsError naming the absent fields, or nil.
func (e *Executor) Validate(req model.AppointmentRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required),
		validation.Field(&req.Contact, validation.Required),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Reason, validation.Required),
	)
	if err == nil {
		return nil
	}

	errs, ok := err.(validation.Errors)
	if !ok {
		return err
	}

	missing := make([]string, 0, len(errs))
	for name := range errs {
		missing = append(missing, name)
	}
	sort.Strings(missing)

	return &MissingFieldsError{Fields: missing}
}

// Execute formats the deterministic booking acknowledgment. Callers
// must Validate first; Execute interpolates whatever it is given.
func (e *Executor) Execute(req model.AppointmentRequest) model.AppointmentResult {
	when := req.Date
	if req.Time != "" {
		when = fmt.Sprintf("%s at %s", req.Date, req.Time)
	}

	return model.AppointmentResult{
		Status: StatusSuccess,
		Message: fmt.Sprintf(
			"Thanks, %s! Your appointment for a %q on %s has been requested. We will send a confirmation to %s shortly.",
			req.Name, req.Reason, when, req.Contact,
		),
	}
}
