package netlist

import (
	"bufio"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/edp1096/toy-buck/pkg/device"
)

type AnalysisType int

const (
	AnalysisOP AnalysisType = iota
	AnalysisTRAN
)

type NetlistData struct {
	Elements  []Element                    // Circuit elements
	Nodes     map[string]int               // Node name and index
	Models    map[string]device.ModelParam // Model parameters
	Analysis  AnalysisType                 // Analysis type
	TranParam struct {
		TStop    float64 // stop time
		Substeps int     // steps per switching period, 0 if not given
	}
	Title string // Circuit title
}

type Element struct {
	Type   string            // Part type (R, L, C, V, S, D)
	Name   string            // Part name
	Nodes  []string          // Node names
	Value  float64           // Part value
	Params map[string]string // Parameter values
}

// Decimal exponent of each SI prefix
var unitMap = map[string]int{
	"T":   12,  // tera
	"G":   9,   // giga
	"meg": 6,   // mega
	"MEG": 6,   // mega
	"K":   3,   // kilo
	"k":   3,   // kilo
	"M":   -3,  // milli
	"m":   -3,  // milli
	"u":   -6,  // micro
	"n":   -9,  // nano
	"p":   -12, // pico
	"f":   -15, // femto
}

var (
	valueRe  = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|MEG|[TGMKkmunpf])?(V|A|H|F|Hz|s|ohm|Ohm)?$`)
	spacesRe = regexp.MustCompile(`\s+`)
)

func Parse(input string) (*NetlistData, error) {
	scanner := bufio.NewScanner(strings.NewReader(input))
	netlistData := &NetlistData{
		Nodes:  make(map[string]int),
		Models: make(map[string]device.ModelParam),
	}

	// Title or comment
	if scanner.Scan() {
		netlistData.Title = strings.TrimPrefix(scanner.Text(), "*")
		netlistData.Title = strings.TrimSpace(netlistData.Title)
	}

	var currentLine string
	lineNo, startNo := 1, 1

	flush := func() error {
		if currentLine == "" {
			return nil
		}
		err := parseLine(netlistData, currentLine)
		currentLine = ""
		if err != nil {
			return fmt.Errorf("line %d: %w", startNo, err)
		}
		return nil
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Inline comment
		if idx := strings.IndexAny(line, "*;"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if len(line) == 0 {
			continue
		}

		if strings.HasPrefix(line, "+") {
			if currentLine == "" {
				return nil, fmt.Errorf("line %d: continuation without a preceding line", lineNo)
			}
			currentLine += " " + strings.TrimSpace(line[1:])
			continue
		}

		if err := flush(); err != nil {
			return nil, err
		}
		if strings.EqualFold(line, ".end") {
			break
		}
		currentLine = line
		startNo = lineNo
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading netlist: %w", err)
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return netlistData, nil
}

func parseLine(netlistData *NetlistData, line string) error {
	line = spacesRe.ReplaceAllString(line, " ")

	if strings.HasPrefix(line, ".") {
		return parseDotOperator(netlistData, line)
	}

	element, err := parseElement(line)
	if err != nil {
		return err
	}

	netlistData.Elements = append(netlistData.Elements, *element)
	for _, node := range element.Nodes {
		if _, exists := netlistData.Nodes[node]; !exists {
			netlistData.Nodes[node] = len(netlistData.Nodes)
		}
	}
	return nil
}

// Parse .op, .tran, .model
func parseDotOperator(netlistData *NetlistData, line string) error {
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case ".model":
		return parseModel(netlistData, fields[1:])

	case ".op":
		netlistData.Analysis = AnalysisOP

	case ".tran":
		netlistData.Analysis = AnalysisTRAN
		if len(fields) < 2 {
			return fmt.Errorf("insufficient tran parameters, need tstop")
		}

		tstop, err := ParseValue(fields[1])
		if err != nil {
			return fmt.Errorf("invalid tstop: %w", err)
		}
		netlistData.TranParam.TStop = tstop

		for _, f := range fields[2:] {
			key, val, ok := strings.Cut(f, "=")
			if !ok || strings.ToLower(key) != "substeps" {
				return fmt.Errorf("unknown tran option: %s", f)
			}
			n, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid substeps: %w", err)
			}
			netlistData.TranParam.Substeps = n
		}

	default:
		return fmt.Errorf("unsupported analysis type: %s", fields[0])
	}

	return nil
}

// parseModel reads ".model NAME D(vf=0.7 ron=0.1)". Only diode models exist.
func parseModel(netlistData *NetlistData, fields []string) error {
	if len(fields) < 2 {
		return fmt.Errorf("insufficient model parameters")
	}

	modelName := fields[0]
	rest := strings.Join(fields[1:], " ")
	rest = strings.ReplaceAll(rest, "(", " ")
	rest = strings.ReplaceAll(rest, ")", " ")
	words := strings.Fields(rest)

	modelType := strings.ToUpper(words[0])
	if modelType != "D" {
		return fmt.Errorf("unsupported model type: %s", modelType)
	}

	params := map[string]float64{
		"vf":  0.7, // Forward voltage
		"ron": 0.0, // On resistance
	}

	for _, pair := range words[1:] {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid model parameter %s", pair)
		}
		paramName := strings.ToLower(strings.TrimSpace(key))
		if _, known := params[paramName]; !known {
			return fmt.Errorf("unknown diode parameter %s", paramName)
		}
		value, err := ParseValue(val)
		if err != nil {
			return fmt.Errorf("invalid parameter value %s: %w", pair, err)
		}
		params[paramName] = value
	}

	netlistData.Models[modelName] = device.ModelParam{
		Type:   modelType,
		Name:   modelName,
		Params: params,
	}

	return nil
}

// Parse circuit element
func parseElement(line string) (*Element, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("invalid element format: %s", line)
	}

	elem := &Element{
		Name:   fields[0],
		Type:   strings.ToUpper(string(fields[0][0])),
		Nodes:  []string{fields[1], fields[2]},
		Params: make(map[string]string),
	}

	switch elem.Type {
	case "V":
		return parseVoltageSource(elem, fields[3:])

	case "S":
		return parseSwitch(elem, fields[3:])

	case "D":
		if len(fields) > 4 {
			return nil, fmt.Errorf("diode %s: unexpected fields after model", elem.Name)
		}
		elem.Params["model"] = fields[3]
		return elem, nil

	case "R", "L", "C":
		value, err := ParseValue(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", elem.Name, err)
		}
		elem.Value = value

		allowed := map[string]string{"L": "rs", "C": "esr"}[elem.Type]
		for _, f := range fields[4:] {
			key, val, ok := strings.Cut(f, "=")
			key = strings.ToLower(key)
			if !ok || key != allowed {
				return nil, fmt.Errorf("%s: unknown parameter %s", elem.Name, f)
			}
			elem.Params[key] = val
		}
		return elem, nil

	default:
		return nil, fmt.Errorf("unsupported element type: %s", elem.Type)
	}
}

func parseVoltageSource(elem *Element, words []string) (*Element, error) {
	if strings.EqualFold(words[0], "DC") {
		words = words[1:]
	}
	if len(words) != 1 {
		return nil, fmt.Errorf("voltage source %s: expected a single DC value", elem.Name)
	}

	value, err := ParseValue(words[0])
	if err != nil {
		return nil, fmt.Errorf("voltage source %s: %w", elem.Name, err)
	}
	elem.Params["type"] = "dc"
	elem.Value = value
	return elem, nil
}

// parseSwitch reads "PWM(fsw duty) [ron=R]".
func parseSwitch(elem *Element, words []string) (*Element, error) {
	remaining := strings.Join(words, " ")
	remaining = strings.ReplaceAll(remaining, "(", " ( ") // Append whitespace around parentheses
	remaining = strings.ReplaceAll(remaining, ")", " ) ")
	words = strings.Fields(remaining)

	if len(words) < 5 || !strings.EqualFold(words[0], "PWM") || words[1] != "(" || words[4] != ")" {
		return nil, fmt.Errorf("switch %s: expected PWM(fsw duty)", elem.Name)
	}
	elem.Params["fsw"] = words[2]
	elem.Params["duty"] = words[3]

	for _, f := range words[5:] {
		key, val, ok := strings.Cut(f, "=")
		if !ok || strings.ToLower(key) != "ron" {
			return nil, fmt.Errorf("switch %s: unknown parameter %s", elem.Name, f)
		}
		elem.Params["ron"] = val
	}
	return elem, nil
}

// ParseValue - Parse value and factor. 1k -> 1000, 47uF -> 4.7e-5
func ParseValue(val string) (float64, error) {
	matches := valueRe.FindStringSubmatch(strings.TrimSpace(val))
	if matches == nil {
		return 0, fmt.Errorf("invalid value format: %s", val)
	}

	num, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, err
	}

	// factor. Dividing keeps 200u equal to 200e-6.
	if exp, ok := unitMap[matches[2]]; ok {
		scale := math.Pow10(abs(exp))
		if exp < 0 {
			num /= scale
		} else {
			num *= scale
		}
	}

	return num, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
