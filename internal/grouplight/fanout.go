package grouplight

import (
	"context"
	"fmt"
)

// Command names dispatched to the per-device control interface.
// Colour and colour temperature changes ride on turn_on, carrying the
// colour parameters alongside.
const (
	commandTurnOn  = "turn_on"
	commandTurnOff = "turn_off"
)

// Parameter keys recognised by device adapters.
const (
	paramBrightness = "brightness"
	paramTransition = "transition"
	paramHSColor    = "hs_color"
	paramRGBColor   = "rgb_color"
	paramColorTemp  = "color_temp"
)

// fanout dispatches one logical command as a per-member device call for
// each member, in configured order.
//
// Dispatch is strictly sequential: each call blocks until the device
// acknowledges before the next member is addressed. The first failure
// aborts the remainder and propagates to the caller unmodified apart
// from wrapping; there is no retry and no partial-failure isolation.
// The context bounds the whole invocation.
func fanout(ctx context.Context, sender CommandSender, memberIDs []string, command string, params map[string]any) error {
	for _, id := range memberIDs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("fanout of %s interrupted before %s: %w", command, id, err)
		}
		if err := sender.Send(ctx, id, command, params); err != nil {
			return fmt.Errorf("fanout of %s aborted at %s: %w", command, id, err)
		}
	}
	return nil
}

// turnOnParams flattens TurnOnParams into the wire parameter map.
// Unset fields are omitted entirely.
func turnOnParams(p TurnOnParams) map[string]any {
	params := make(map[string]any)
	if p.Brightness != nil {
		params[paramBrightness] = *p.Brightness
	}
	if p.Transition != nil {
		params[paramTransition] = *p.Transition
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

// turnOffParams flattens TurnOffParams into the wire parameter map.
func turnOffParams(p TurnOffParams) map[string]any {
	if p.Transition == nil {
		return nil
	}
	return map[string]any{paramTransition: *p.Transition}
}

// colorParams builds the turn_on parameter map for a colour change.
// Exactly one colour form appears in the result; the two are never mixed.
func colorParams(c Color) (map[string]any, error) {
	switch c.Kind() {
	case ColorHS:
		hue, sat := c.HS()
		return map[string]any{paramHSColor: []float64{hue, sat}}, nil
	case ColorRGB:
		r, g, b := c.RGB()
		return map[string]any{paramRGBColor: []int{r, g, b}}, nil
	default:
		return nil, ErrInvalidColor
	}
}
