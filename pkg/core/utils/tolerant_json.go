package utils

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// DecodeScenario parses a hand-authored scenario file into out. Files with
// an .hjson extension go through the Hjson reader (comments, unquoted keys,
// optional commas); everything else is treated as JSON, with a repair pass
// for the usual hand-editing damage (trailing commas, single quotes,
// unclosed brackets) before giving up.
func DecodeScenario(path string, data []byte, out interface{}) error {
	if strings.EqualFold(filepath.Ext(path), ".hjson") {
		return decodeHJSON(data, out)
	}

	if err := json.Unmarshal(data, out); err == nil {
		return nil
	}

	repaired, err := jsonrepair.RepairJSON(string(data))
	if err != nil {
		return fmt.Errorf("scenario %s: unparseable JSON and repair failed: %v", path, err)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("scenario %s: %w", path, err)
	}
	fmt.Printf("[SCENARIO] Repaired malformed JSON in %s\n", path)
	return nil
}

// decodeHJSON round-trips Hjson through standard JSON so the caller's json
// tags apply.
func decodeHJSON(data []byte, out interface{}) error {
	var intermediate interface{}
	if err := hjson.Unmarshal(data, &intermediate); err != nil {
		return fmt.Errorf("hjson parse: %v", err)
	}
	jsonBytes, err := json.Marshal(intermediate)
	if err != nil {
		return fmt.Errorf("hjson convert: %v", err)
	}
	return json.Unmarshal(jsonBytes, out)
}
