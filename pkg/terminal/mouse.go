package terminal

import "bytes"

// SGR (1006) mouse report prefix: ESC [ < button ; x ; y (M|m).
var sgrPrefix = []byte("\x1b[<")

// Translate decodes a raw input batch into mouse events.
//
// Returns nil when the batch contains no mouse reports at all. Within a
// batch, a malformed report becomes a nil entry so callers can drop it
// without losing the events around it; order matches emission order.
func Translate(raw []byte) []*MouseEvent {
	if !bytes.Contains(raw, sgrPrefix) {
		return nil
	}

	var events []*MouseEvent
	for i := 0; i < len(raw); {
		idx := bytes.Index(raw[i:], sgrPrefix)
		if idx < 0 {
			break
		}
		ev, consumed := decodeSGR(raw[i+idx:])
		if consumed == 0 {
			// Truncated report at the end of the batch.
			events = append(events, nil)
			break
		}
		events = append(events, ev)
		i += idx + consumed
	}
	return events
}

// decodeSGR parses one SGR report. Returns the event (nil if the report
// is well-formed but unmapped, e.g. middle button) and bytes consumed.
// A consumed count of 0 means the report never terminated.
func decodeSGR(data []byte) (*MouseEvent, int) {
	i := len(sgrPrefix)
	var params [3]int
	stage := 0

	for ; i < len(data); i++ {
		b := data[i]
		switch {
		case b >= '0' && b <= '9':
			params[stage] = params[stage]*10 + int(b-'0')
		case b == ';':
			stage++
			if stage > 2 {
				return nil, i + 1
			}
		case b == 'M' || b == 'm':
			if stage != 2 {
				return nil, i + 1
			}
			return mapSGR(params[0], params[1]-1, params[2]-1, b == 'M'), i + 1
		default:
			// Not a mouse report after all.
			return nil, i + 1
		}
	}
	return nil, 0
}

// mapSGR converts decoded button bits into a MouseEvent.
func mapSGR(button, x, y int, press bool) *MouseEvent {
	if x < 0 || y < 0 {
		return nil
	}

	// Wheel events, bit 6.
	if button&64 != 0 {
		action := MouseScrollUp
		if button&1 != 0 {
			action = MouseScrollDown
		}
		return &MouseEvent{Action: action, X: x, Y: y}
	}

	// Motion events, bit 5. Button 3 means no button held.
	if button&32 != 0 {
		if button&3 == 3 {
			return &MouseEvent{Action: MouseHover, X: x, Y: y}
		}
		return &MouseEvent{Action: MouseLeftDrag, X: x, Y: y}
	}

	if !press {
		return &MouseEvent{Action: MouseRelease, X: x, Y: y}
	}

	switch button & 3 {
	case 0:
		return &MouseEvent{Action: MouseLeftClick, X: x, Y: y}
	case 2:
		return &MouseEvent{Action: MouseRightClick, X: x, Y: y}
	}
	// Middle button has no mapping.
	return nil
}
