package extract

import (
	"strconv"
	"strings"
)

const callPrefix = "Started a call that lasted "

// Call parses a call announcement. The whole content must read
//
//	Started a call that lasted <digits> minute.
//	Started a call that lasted <digits> minutes.
//
// Anything else, including surrounding whitespace, is ordinary text.
func Call(content string) (minutes int, ok bool) {
	rest, found := strings.CutPrefix(content, callPrefix)
	if !found {
		return 0, false
	}
	rest, found = strings.CutSuffix(rest, ".")
	if !found {
		return 0, false
	}
	if r, cut := strings.CutSuffix(rest, " minutes"); cut {
		rest = r
	} else if r, cut := strings.CutSuffix(rest, " minute"); cut {
		rest = r
	} else {
		return 0, false
	}
	if rest == "" || !allDigits(rest) {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// CallBuckets lists duration distribution labels in ascending order.
var CallBuckets = []string{"< 5m", "5–15m", "15–30m", "30m–1h", "1–2h", "2–4h", "4h+"}

// CallBucket returns the distribution label for a call of the given length.
// Lower bounds are inclusive.
func CallBucket(minutes int) string {
	switch {
	case minutes < 5:
		return CallBuckets[0]
	case minutes < 15:
		return CallBuckets[1]
	case minutes < 30:
		return CallBuckets[2]
	case minutes < 60:
		return CallBuckets[3]
	case minutes < 120:
		return CallBuckets[4]
	case minutes < 240:
		return CallBuckets[5]
	default:
		return CallBuckets[6]
	}
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
