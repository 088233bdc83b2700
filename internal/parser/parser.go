package parser

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/flowarts/pictograph/pkg/core"
)

// parseIntFromFloat parses a JSON number that may be an integer ("3") or a
// float ("3.0") into int.
func parseIntFromFloat(n json.Number) (int, error) {
	if v, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return int(v), nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int", n.String())
	}
	return int(f), nil
}

// Parser decodes sequence literals into core.Sequence values.
// It has zero external dependencies beyond a logger.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ReadSequenceFile reads and parses a sequence literal from a JSON file.
func (p *Parser) ReadSequenceFile(path string) (core.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Sequence{}, fmt.Errorf("error reading sequence file: %w", err)
	}
	return p.ParseSequence(data)
}

// ParseSequence parses a sequence literal: a JSON array whose element 0 is
// the metadata and elements 1..N are step definitions. Unknown vocabulary
// tokens are logged and parsed to their Unknown variants; structural
// problems are errors.
func (p *Parser) ParseSequence(data []byte) (core.Sequence, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return core.Sequence{}, fmt.Errorf("error unmarshalling sequence: %w", err)
	}
	if len(elements) < 3 {
		return core.Sequence{}, fmt.Errorf("%w: got %d elements", core.ErrTooFewElements, len(elements))
	}

	meta, err := p.parseMetadata(elements[0])
	if err != nil {
		return core.Sequence{}, err
	}

	seq := core.Sequence{
		Metadata: meta,
		Steps:    make([]core.StepDefinition, 0, len(elements)-1),
	}
	for i, el := range elements[1:] {
		step, err := p.parseStep(el, i+1)
		if err != nil {
			return core.Sequence{}, err
		}
		seq.Steps = append(seq.Steps, step)
	}

	if err := seq.Validate(); err != nil {
		return core.Sequence{}, err
	}

	p.logger.Debug("Parsed sequence",
		"word", meta.Word,
		"author", meta.Author,
		"totalBeats", meta.TotalBeats)

	return seq, nil
}

type rawMetadata struct {
	Word       string      `json:"word"`
	Author     string      `json:"author"`
	TotalBeats json.Number `json:"total_beats"`
}

func (p *Parser) parseMetadata(data json.RawMessage) (core.SequenceMetadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.SequenceMetadata{}, fmt.Errorf("error unmarshalling sequence metadata: %w", err)
	}
	if raw.TotalBeats == "" {
		return core.SequenceMetadata{}, fmt.Errorf("sequence metadata is missing total_beats")
	}
	total, err := parseIntFromFloat(raw.TotalBeats)
	if err != nil {
		return core.SequenceMetadata{}, fmt.Errorf("error converting total_beats to int: %w", err)
	}
	return core.SequenceMetadata{
		Word:       raw.Word,
		Author:     raw.Author,
		TotalBeats: total,
	}, nil
}

type rawStep struct {
	Beat       json.Number   `json:"beat"`
	Letter     string        `json:"letter"`
	LetterType string        `json:"letter_type"`
	Blue       rawAttributes `json:"blue_attributes"`
	Red        rawAttributes `json:"red_attributes"`
}

type rawAttributes struct {
	StartLoc   string          `json:"start_loc"`
	EndLoc     string          `json:"end_loc"`
	StartOri   string          `json:"start_ori"`
	EndOri     string          `json:"end_ori"`
	MotionType string          `json:"motion_type"`
	PropRotDir string          `json:"prop_rot_dir"`
	Turns      json.RawMessage `json:"turns"`
}

func (p *Parser) parseStep(data json.RawMessage, index int) (core.StepDefinition, error) {
	var raw rawStep
	if err := json.Unmarshal(data, &raw); err != nil {
		return core.StepDefinition{}, fmt.Errorf("error unmarshalling step %d: %w", index, err)
	}

	step := core.StepDefinition{
		Letter:     raw.Letter,
		LetterType: raw.LetterType,
	}
	if raw.Beat != "" {
		beat, err := parseIntFromFloat(raw.Beat)
		if err != nil {
			return step, fmt.Errorf("error converting beat of step %d to int: %w", index, err)
		}
		step.Beat = beat
	}

	var err error
	step.Blue, err = p.parseAttributes(raw.Blue, index, core.Blue)
	if err != nil {
		return step, err
	}
	step.Red, err = p.parseAttributes(raw.Red, index, core.Red)
	if err != nil {
		return step, err
	}
	return step, nil
}

func (p *Parser) parseAttributes(raw rawAttributes, index int, color core.PropColor) (core.PropAttributes, error) {
	warn := func(field, value string) {
		p.logger.Warn("Unrecognized value in step attributes",
			"step", index,
			"prop", color.String(),
			"field", field,
			"value", value)
	}

	var attrs core.PropAttributes
	var ok bool

	if attrs.StartLoc, ok = core.ParsePosition(raw.StartLoc); !ok {
		warn("start_loc", raw.StartLoc)
	}
	if attrs.EndLoc, ok = core.ParsePosition(raw.EndLoc); !ok {
		warn("end_loc", raw.EndLoc)
	}
	if attrs.StartOri, ok = core.ParseOrientation(raw.StartOri); !ok {
		warn("start_ori", raw.StartOri)
	}
	if attrs.EndOri, ok = core.ParseOrientation(raw.EndOri); !ok {
		warn("end_ori", raw.EndOri)
	}
	if attrs.MotionType, ok = core.ParseMotionType(raw.MotionType); !ok {
		warn("motion_type", raw.MotionType)
	}
	if attrs.PropRotDir, ok = core.ParseRotationDirection(raw.PropRotDir); !ok {
		warn("prop_rot_dir", raw.PropRotDir)
	}

	turns, err := parseTurns(raw.Turns)
	if err != nil {
		return attrs, fmt.Errorf("error converting turns of step %d %s prop: %w", index, color, err)
	}
	attrs.Turns = turns

	return attrs, nil
}

// parseTurns accepts a number, a numeric string, or "fl" (float, no turns).
// A missing value is 0.
func parseTurns(data json.RawMessage) (float64, error) {
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if strings.EqualFold(s, "fl") || s == "" {
			return 0, nil
		}
		data = json.RawMessage(s)
	}

	turns, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid turns %s", string(data))
	}
	if turns < 0 || math.IsNaN(turns) || math.IsInf(turns, 0) {
		return 0, fmt.Errorf("turns must be a non-negative number, got %v", turns)
	}
	return turns, nil
}
