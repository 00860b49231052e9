package careanalysis

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/jakechorley/stay-packages/pkg/core/model"
)

// maxWrapperDepth bounds how many careData wrappers are peeled off a payload
const maxWrapperDepth = 4

// Entry is one row of guest-submitted care need
type Entry struct {
	Care   model.CarePeriod `json:"care"`
	Date   string           `json:"date"`
	Values EntryValues      `json:"values"`
}

// EntryValues carries the free-text duration for an entry
type EntryValues struct {
	Duration DurationText `json:"duration"`
}

// DurationText accepts either a JSON string or a JSON number.
// Forms have stored both over time.
type DurationText string

func (d *DurationText) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*d = DurationText(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		// Unknown shape: leave empty so the entry parses to 0 hours
		*d = ""
		return nil
	}
	*d = DurationText(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// DecodeEntries extracts care entries from a stored care payload.
//
// Accepted shapes:
//   - [ {entry}, ... ]
//   - { "careData": [ ... ], "defaultValues": { ... } }
//   - { "careData": { "careData": [ ... ], ... }, ... }
//
// A malformed payload yields no entries and is logged, never returned as an error.
func DecodeEntries(raw []byte, logger *zap.Logger) []Entry {
	payload := bytes.TrimSpace(raw)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return nil
	}

	for depth := 0; depth < maxWrapperDepth; depth++ {
		switch payload[0] {
		case '[':
			return decodeEntryList(payload, logger)
		case '{':
			var wrapper map[string]json.RawMessage
			if err := json.Unmarshal(payload, &wrapper); err != nil {
				logger.Warn("Unparseable care data wrapper, treating as no care", zap.Error(err))
				return nil
			}
			inner, ok := wrapper["careData"]
			if !ok {
				logger.Warn("Care data wrapper has no careData field, treating as no care")
				return nil
			}
			payload = bytes.TrimSpace(inner)
			if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
				return nil
			}
		default:
			// A JSON string holding encoded JSON
			var encoded string
			if err := json.Unmarshal(payload, &encoded); err != nil {
				logger.Warn("Unrecognised care data payload, treating as no care", zap.Error(err))
				return nil
			}
			payload = bytes.TrimSpace([]byte(encoded))
			if len(payload) == 0 {
				return nil
			}
		}
	}

	logger.Warn("Care data nested too deeply, treating as no care", zap.Int("max_depth", maxWrapperDepth))
	return nil
}

// decodeEntryList decodes each element on its own so one bad element doesn't drop the rest
func decodeEntryList(payload []byte, logger *zap.Logger) []Entry {
	var elements []json.RawMessage
	if err := json.Unmarshal(payload, &elements); err != nil {
		logger.Warn("Unparseable care entry list, treating as no care", zap.Error(err))
		return nil
	}

	entries := make([]Entry, 0, len(elements))
	for i, element := range elements {
		var entry Entry
		if err := json.Unmarshal(element, &entry); err != nil {
			logger.Warn("Skipping malformed care entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// normalizeDate reduces timestamps to their calendar date so entries for the same day group together
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	if len(date) >= 10 {
		if _, err := time.Parse("2006-01-02", date[:10]); err == nil {
			return date[:10]
		}
	}
	return date
}
