package commands

import (
	"fmt"
	"time"

	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/locator"
	"github.com/aretw0/tauribridge/pkg/ports"
)

// locate waits up to wait for the element to be present and returns it.
func locate(c ports.Client, args locatorArgs, wait time.Duration) (ports.Element, error) {
	loc, err := locator.Resolve(args.By, args.Value)
	if err != nil {
		return nil, err
	}
	return waitForElement(c, loc, wait, nil)
}

// waitForElement polls until the element is present and, when accept is
// non-nil, until accept reports true for it.
func waitForElement(c ports.Client, loc domain.Locator, wait time.Duration, accept func(ports.Element) (bool, error)) (ports.Element, error) {
	var found ports.Element
	err := c.Wait(func(c ports.Client) (bool, error) {
		el, err := c.FindElement(loc)
		if err != nil {
			return false, nil
		}
		if accept != nil {
			ok, err := accept(el)
			if err != nil || !ok {
				return false, nil
			}
		}
		found = el
		return true, nil
	}, wait)
	if err != nil {
		return nil, fmt.Errorf("element %s not found within %s: %w", loc, wait, err)
	}
	return found, nil
}

// element is the common shape of element commands: locate, then act.
func element(call Call, act func(el ports.Element, args locatorArgs) (domain.Result, error)) (domain.Result, error) {
	var args locatorArgs
	if err := call.Decode(&args); err != nil {
		return domain.Result{}, err
	}
	el, err := locate(call.Client, args, call.Wait)
	if err != nil {
		return domain.Result{}, err
	}
	return act(el, args)
}
