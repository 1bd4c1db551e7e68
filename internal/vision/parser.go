package vision

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// number accepts JSON numbers and numeric strings
type number struct {
	value float64
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	s := strings.Trim(string(data), `"% `)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	n.value = v
	return nil
}

// flag accepts JSON booleans and "true"/"false" strings
type flag struct {
	value bool
}

func (f *flag) UnmarshalJSON(data []byte) error {
	switch strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`)) {
	case "true", "yes":
		f.value = true
	case "false", "no", "null", "":
		f.value = false
	default:
		return fmt.Errorf("not a boolean: %s", data)
	}
	return nil
}

type rawCell struct {
	CellNumber      *number `json:"cell_number"`
	CoveragePercent *number `json:"coverage_percent"`
	Description     string  `json:"description"`
}

type rawResponse struct {
	Description string    `json:"description"`
	Found       *flag     `json:"found"`
	Cells       []rawCell `json:"cells"`
	PrimaryCell *number   `json:"primary_cell"`
	CellNumber  *number   `json:"cell_number"`
	Confidence  string    `json:"confidence"`
	Reasoning   string    `json:"reasoning"`
}

// ExtractObject returns the span from the first '{' through the last '}'
func ExtractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// ParseLocateResponse interprets free-form model output. Text without a JSON
// object, found=false, or a found=true answer with no usable cell all yield a
// negative result. Only undecodable JSON is an error (ErrMalformedResponse).
func ParseLocateResponse(text string) (domain.LocateResult, error) {
	object, ok := ExtractObject(text)
	if !ok {
		return domain.NotFound("no JSON object in vision response"), nil
	}

	var raw rawResponse
	if err := json.Unmarshal([]byte(object), &raw); err != nil {
		return domain.LocateResult{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if raw.Found == nil || !raw.Found.value {
		result := domain.NotFound(raw.Reasoning)
		result.Description = raw.Description
		return result, nil
	}

	cells := make([]domain.CellObservation, 0, len(raw.Cells))
	for _, c := range raw.Cells {
		n, ok := cellNumber(c.CellNumber)
		if !ok {
			continue
		}
		coverage := 0.0
		if c.CoveragePercent != nil && c.CoveragePercent.value > 0 {
			coverage = math.Min(c.CoveragePercent.value, 100)
		}
		cells = append(cells, domain.CellObservation{
			CellNumber:      n,
			CoveragePercent: coverage,
			Description:     c.Description,
		})
	}

	if len(cells) == 0 {
		n, ok := cellNumber(raw.PrimaryCell)
		if !ok {
			n, ok = cellNumber(raw.CellNumber)
		}
		if !ok {
			reasoning := raw.Reasoning
			if reasoning == "" {
				reasoning = "no cell information in vision response"
			}
			result := domain.NotFound(reasoning)
			result.Description = raw.Description
			return result, nil
		}
		cells = append(cells, domain.CellObservation{CellNumber: n, CoveragePercent: 100})
	}

	return domain.LocateResult{
		Found:       true,
		Cells:       cells,
		Confidence:  domain.ParseConfidence(raw.Confidence),
		Reasoning:   raw.Reasoning,
		Description: raw.Description,
	}, nil
}

func cellNumber(n *number) (int, bool) {
	if n == nil {
		return 0, false
	}
	if n.value != math.Trunc(n.value) || math.IsInf(n.value, 0) || math.IsNaN(n.value) {
		return 0, false
	}
	return int(n.value), true
}
