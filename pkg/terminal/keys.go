package terminal

import "unicode/utf8"

// DecodeKeys parses a raw input batch into key events. Mouse reports are
// skipped here; Translate handles them. Bytes that decode to nothing are
// dropped silently.
func DecodeKeys(data []byte) []KeyEvent {
	var events []KeyEvent
	i := 0

	for i < len(data) {
		b := data[i]

		if b == 0x1b {
			if i+1 >= len(data) {
				events = append(events, KeyEvent{Key: KeyEscape})
				i++
				continue
			}
			next := data[i+1]
			switch next {
			case '[':
				if i+2 < len(data) && data[i+2] == '<' {
					// SGR mouse report, consume without emitting.
					_, consumed := decodeSGR(data[i:])
					if consumed == 0 {
						return events
					}
					i += consumed
					continue
				}
				key, consumed := decodeCSI(data[i:])
				if consumed > 0 {
					if key != KeyNone {
						events = append(events, KeyEvent{Key: key})
					}
					i += consumed
					continue
				}
				events = append(events, KeyEvent{Key: KeyEscape})
				i++
			case 'O':
				if i+2 < len(data) {
					if key := decodeSS3(data[i+2]); key != KeyNone {
						events = append(events, KeyEvent{Key: key})
						i += 3
						continue
					}
				}
				events = append(events, KeyEvent{Key: KeyEscape})
				i++
			default:
				if next >= 0x20 && next < 0x7f {
					events = append(events, KeyEvent{Key: KeyRune, Rune: rune(next), Alt: true})
					i += 2
					continue
				}
				events = append(events, KeyEvent{Key: KeyEscape})
				i++
			}
			continue
		}

		if b < 0x20 {
			if key := controlKey(b); key != KeyNone {
				events = append(events, KeyEvent{Key: key})
			}
			i++
			continue
		}

		if b == 0x7f {
			events = append(events, KeyEvent{Key: KeyBackspace})
			i++
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			i++
			continue
		}
		events = append(events, KeyEvent{Key: KeyRune, Rune: r})
		i += size
	}

	return events
}

// decodeCSI parses an ESC [ sequence. Returns the key and bytes consumed,
// or (KeyNone, 0) when the sequence is incomplete.
func decodeCSI(data []byte) (Key, int) {
	// data[0] = ESC, data[1] = '['. Scan to the final byte (0x40-0x7e).
	i := 2
	params := 0
	for ; i < len(data); i++ {
		b := data[i]
		if b >= '0' && b <= '9' {
			params = params*10 + int(b-'0')
			continue
		}
		if b == ';' {
			params = 0
			continue
		}
		if b >= 0x40 && b <= 0x7e {
			return csiKey(params, b), i + 1
		}
		return KeyNone, i + 1
	}
	return KeyNone, 0
}

func csiKey(param int, final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	case 'Z':
		return KeyTab // Shift-tab folds into tab
	case '~':
		switch param {
		case 1, 7:
			return KeyHome
		case 2:
			return KeyInsert
		case 3:
			return KeyDelete
		case 4, 8:
			return KeyEnd
		case 5:
			return KeyPageUp
		case 6:
			return KeyPageDown
		}
	}
	return KeyNone
}

func decodeSS3(b byte) Key {
	switch b {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

func controlKey(b byte) Key {
	switch b {
	case 0x01:
		return KeyCtrlA
	case 0x02:
		return KeyCtrlB
	case 0x03:
		return KeyCtrlC
	case 0x04:
		return KeyCtrlD
	case 0x05:
		return KeyCtrlE
	case 0x06:
		return KeyCtrlF
	case 0x07:
		return KeyCtrlG
	case 0x08:
		return KeyBackspace
	case 0x09:
		return KeyTab
	case 0x0a, 0x0d:
		return KeyEnter
	case 0x0b:
		return KeyCtrlK
	case 0x0c:
		return KeyCtrlL
	case 0x0e:
		return KeyCtrlN
	case 0x10:
		return KeyCtrlP
	case 0x11:
		return KeyCtrlQ
	case 0x12:
		return KeyCtrlR
	case 0x14:
		return KeyCtrlT
	case 0x15:
		return KeyCtrlU
	case 0x16:
		return KeyCtrlV
	case 0x17:
		return KeyCtrlW
	case 0x18:
		return KeyCtrlX
	case 0x19:
		return KeyCtrlY
	case 0x1a:
		return KeyCtrlZ
	}
	return KeyNone
}
