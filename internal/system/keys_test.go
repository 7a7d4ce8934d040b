package system

import (
	"encoding/binary"
	"testing"
)

const testTVSize = 16

func record(typ, code uint16, value int32) []byte {
	rec := make([]byte, testTVSize+8)
	binary.LittleEndian.PutUint16(rec[testTVSize:], typ)
	binary.LittleEndian.PutUint16(rec[testTVSize+2:], code)
	binary.LittleEndian.PutUint32(rec[testTVSize+4:], uint32(value))
	return rec
}

func TestParseKeyEvents(t *testing.T) {
	var buf []byte
	buf = append(buf, record(evKey, keyR, 1)...)
	buf = append(buf, record(0x00, 0, 0)...) // EV_SYN
	buf = append(buf, record(evKey, keyR, 0)...)
	buf = append(buf, record(evKey, keyF4, 1)[:10]...)

	got := parseKeyEvents(buf, testTVSize)
	if len(got) != 2 {
		t.Fatalf("events = %+v", got)
	}
	if got[0] != (keyEvent{code: keyR, value: 1}) || got[1] != (keyEvent{code: keyR, value: 0}) {
		t.Fatalf("events = %+v", got)
	}
}

func TestDispatchLevels(t *testing.T) {
	var recompute []bool
	quits := 0
	h := KeyHandlers{
		Recompute: func(down bool) { recompute = append(recompute, down) },
		Quit: func(down bool) {
			if down {
				quits++
			}
		},
	}
	for _, ev := range []keyEvent{{keyR, 1}, {keyR, 2}, {keyR, 0}, {keyEsc, 1}, {keyF4, 1}, {30, 1}} {
		h.dispatch(ev)
	}
	if len(recompute) != 3 || !recompute[0] || !recompute[1] || recompute[2] {
		t.Fatalf("recompute levels = %v", recompute)
	}
	if quits != 2 {
		t.Fatalf("quits = %d", quits)
	}
	KeyHandlers{}.dispatch(keyEvent{keyR, 1})
}
