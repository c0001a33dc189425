package infrastructure

import (
	"errors"

	"github.com/platinummonkey/buildcheck/pkg/buildcheck"
	"github.com/platinummonkey/buildcheck/pkg/buildevents"
)

// registrationContext is handed to one check's RegisterActions.
type registrationContext struct {
	check    *CheckWrapper
	central  *centralContext
	isolator *Isolator
	sink     *buildevents.DispatchingContext
}

var _ buildcheck.RegistrationContext = (*registrationContext)(nil)

func (rc *registrationContext) RegisterEvaluatedPropertiesAction(action buildcheck.Action[buildcheck.EvaluatedPropertiesData]) error {
	return register(rc, buildcheck.EventEvaluatedProperties, "RegisterEvaluatedPropertiesAction", &rc.central.evaluatedProperties, action)
}

func (rc *registrationContext) RegisterParsedItemsAction(action buildcheck.Action[buildcheck.ParsedItemsData]) error {
	return register(rc, buildcheck.EventParsedItems, "RegisterParsedItemsAction", &rc.central.parsedItems, action)
}

func (rc *registrationContext) RegisterPropertyReadAction(action buildcheck.Action[buildcheck.PropertyReadData]) error {
	return register(rc, buildcheck.EventPropertyRead, "RegisterPropertyReadAction", &rc.central.propertyRead, action)
}

func (rc *registrationContext) RegisterPropertyWriteAction(action buildcheck.Action[buildcheck.PropertyWriteData]) error {
	return register(rc, buildcheck.EventPropertyWrite, "RegisterPropertyWriteAction", &rc.central.propertyWrite, action)
}

func (rc *registrationContext) RegisterProjectProcessingDoneAction(action buildcheck.Action[buildcheck.ProjectProcessingDoneData]) error {
	return register(rc, buildcheck.EventProjectProcessingDone, "RegisterProjectProcessingDoneAction", &rc.central.projectProcessingDone, action)
}

// register enforces one registration per check and event kind. A second call
// faults the check and leaves the first registration in place.
func register[T buildcheck.EventData](rc *registrationContext, kind buildcheck.EventKind, method string, list *actionList[T], action buildcheck.Action[T]) error {
	w := rc.check

	if w.State() != StateRegistering {
		err := &buildcheck.RegistrationError{Check: w.name, Action: method, Err: errors.New("called outside the registration phase")}
		rc.isolator.Fault(w, rc.sink, PhaseRegistration, err)
		return err
	}

	if action == nil {
		err := &buildcheck.RegistrationError{Check: w.name, Action: method, Err: errors.New("nil action")}
		rc.isolator.Fault(w, rc.sink, PhaseRegistration, err)
		return err
	}

	if w.registrations[kind].Add(1) > 1 {
		err := &buildcheck.RegistrationError{Check: w.name, Action: method}
		rc.isolator.Fault(w, rc.sink, PhaseRegistration, err)
		return err
	}

	list.add(w, action)
	return nil
}
