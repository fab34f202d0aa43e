package register

// kfmList1 is the HDLC frame-type-7 key sequence: a single momentary
// reading (spec §4.4, KFM_001).
var kfmList1 = []string{
	"1-0:1.7.0.255",
}

// kfmList2 is the key sequence shared by frame types 8, 9, 10 and 11: a
// leading element count, the OBIS list version, meter identification and
// the momentary power/current/voltage registers.
var kfmList2 = []string{
	"", // list.size: element count, not an OBIS-addressed register
	"1-1:0.2.129.255",
	"0-0:96.1.0.255",
	"0-0:96.1.1.255",
	"1-0:1.7.0.255",
	"1-0:2.7.0.255",
	"1-0:3.7.0.255",
	"1-0:4.7.0.255",
	"1-0:31.7.0.255",
	"1-0:51.7.0.255",
	"1-0:71.7.0.255",
	"1-0:32.7.0.255",
	"1-0:52.7.0.255",
	"1-0:72.7.0.255",
}

// kfmList3Extra is appended to kfmList2 for frame types 10 and 11: the
// meter clock plus the four cumulative energy counters.
var kfmList3Extra = []string{
	"0-0:1.0.0.255",
	"1-0:1.8.0.255",
	"1-0:2.8.0.255",
	"1-0:3.8.0.255",
	"1-0:4.8.0.255",
}

// kfmKeysForFrameType returns the positional OBIS key sequence for a given
// HDLC frame type, per spec §4.4's KFM_001 description. Frame type 7
// carries List1 (1 key); types 8 and 9 carry List2 (14 keys); types 10 and
// 11 carry List2 plus 5 more keys (19 keys total). An unrecognised frame
// type yields no positional keys, and the interpreter emits no readings
// for that frame.
func kfmKeysForFrameType(frameType uint8) []string {
	switch frameType {
	case 7:
		return kfmList1
	case 8, 9:
		return kfmList2
	case 10, 11:
		out := make([]string, 0, len(kfmList2)+len(kfmList3Extra))
		out = append(out, kfmList2...)
		out = append(out, kfmList3Extra...)
		return out
	default:
		return nil
	}
}
