package csvtail

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// numericFields are the stream-quality columns coerced to float64. Values
// that fail to parse become JSON null rather than dropping the record.
var numericFields = map[string]struct{}{
	"fps":           {},
	"win_packets":   {},
	"win_lost":      {},
	"win_late":      {},
	"win_dup":       {},
	"win_loss_pct":  {},
	"acc_packets":   {},
	"acc_lost":      {},
	"acc_loss_pct":  {},
	"avg_jitter_ms": {},
	"bitrate_kbps":  {},
	"rtp_in":        {},
	"rtp_gaps":      {},
	"rtp_ooo":       {},
	"buf_corrupted": {},
	"buf_discont":   {},
	"buf_gapflag":   {},
	"gap_events":    {},
	"qos_dropped":   {},
	"late_avg_ms":   {},
	"late_max_ms":   {},
}

// timestampFormats are the accepted input layouts, tried in order. Probes
// write RFC 3339; older ones omit the offset, which is read as UTC.
var timestampFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// outputTimestampFormat is the normalized layout written to the JSONL file:
// microsecond precision with an explicit Z, which the log-shipping agent's
// pipeline stage expects.
const outputTimestampFormat = "2006-01-02T15:04:05.000000Z"

// ConvertRow maps one CSV record, keyed by header column, into the object
// written as a JSONL line. Numeric columns become float64 (or nil when
// unparseable), the timestamp is normalized to UTC, everything else passes
// through as a string. A missing or unparseable timestamp rejects the row.
func ConvertRow(row map[string]string) (map[string]any, error) {
	raw, ok := row["timestamp"]
	if !ok {
		return nil, fmt.Errorf("csvtail: row has no timestamp column")
	}
	ts, err := parseTimestamp(raw)
	if err != nil {
		return nil, err
	}

	obj := make(map[string]any, len(row))
	for key, value := range row {
		switch {
		case key == "timestamp":
			obj[key] = ts.UTC().Format(outputTimestampFormat)
		case isNumericField(key):
			if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				obj[key] = f
			} else {
				obj[key] = nil
			}
		default:
			obj[key] = value
		}
	}
	return obj, nil
}

func isNumericField(key string) bool {
	_, ok := numericFields[key]
	return ok
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("csvtail: unparseable timestamp %q", raw)
}
