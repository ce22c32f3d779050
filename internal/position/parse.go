package position

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"position-watcher/internal/types"
)

// ParseRecord turns "<side>;<quantity>;<price>" into a snapshot. It never
// fails: fields past the third are ignored, a missing field yields Unknown
// or NaN, a blank numeric field is 0, and any other unparseable number is NaN.
func ParseRecord(content string) types.Snapshot {
	fields := strings.Split(strings.TrimSpace(content), ";")

	snap := types.Snapshot{
		Side:     types.SideUnknown,
		Quantity: math.NaN(),
		Price:    math.NaN(),
	}
	if len(fields) > 0 {
		snap.Side = types.ParseSide(fields[0])
	}
	if len(fields) > 1 {
		snap.Quantity = parseNumber(fields[1])
	}
	if len(fields) > 2 {
		snap.Price = parseNumber(fields[2])
	}
	return snap
}

// parseNumber accepts decimal and exponent notation, the spellings
// "Infinity", "+Infinity" and "-Infinity", and unsigned 0x, 0o and 0b
// integers. Other spellings strconv would accept, such as "inf", "nan" or
// hex floats, are NaN. Decimal overflow such as 1e400 is ±Inf.
func parseNumber(token string) float64 {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	switch token {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if base := radix(token); base != 0 {
		return parseRadixInteger(token[2:], base)
	}

	lower := strings.ToLower(token)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(lower, "x") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

func radix(token string) int {
	if len(token) < 3 || token[0] != '0' {
		return 0
	}
	switch token[1] {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func parseRadixInteger(digits string, base int) float64 {
	if digits[0] == '+' || digits[0] == '-' {
		return math.NaN()
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return v
}
