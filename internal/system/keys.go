package system

import "encoding/binary"

const (
	evKey = 0x01

	// Linux input-event-codes.h
	keyEsc = 1
	keyR   = 19
	keyF4  = 62
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// KeyHandlers receive key levels from the watcher goroutines. down is true
// while the key is held, including autorepeat.
type KeyHandlers struct {
	Recompute func(down bool)
	Quit      func(down bool)
}

type keyEvent struct {
	code  uint16
	value int32
}

// parseKeyEvents decodes the EV_KEY records of a buffer of input_event
// structs (timeval, u16 type, u16 code, s32 value). A trailing partial
// record is ignored.
func parseKeyEvents(buf []byte, tvSize int) []keyEvent {
	size := tvSize + 8
	var out []keyEvent
	for off := 0; off+size <= len(buf); off += size {
		rec := buf[off : off+size]
		if binary.LittleEndian.Uint16(rec[tvSize:tvSize+2]) != evKey {
			continue
		}
		out = append(out, keyEvent{
			code:  binary.LittleEndian.Uint16(rec[tvSize+2 : tvSize+4]),
			value: int32(binary.LittleEndian.Uint32(rec[tvSize+4 : tvSize+8])),
		})
	}
	return out
}

// dispatch routes one key event to its handler.
func (h KeyHandlers) dispatch(ev keyEvent) {
	down := ev.value != 0
	switch ev.code {
	case keyR:
		if h.Recompute != nil {
			h.Recompute(down)
		}
	case keyF4, keyEsc:
		if h.Quit != nil {
			h.Quit(down)
		}
	}
}
