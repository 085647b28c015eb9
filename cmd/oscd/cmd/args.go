package cmd

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// parseArgs converts command line words into OSC arguments. A word is either
// typed ("i:1", "h:1", "f:1.5", "d:1.5", "s:text", "b:cafe"), one of the
// bare tags "T", "F" and "N", or untyped, in which case integers become
// int32, other numbers float32 and everything else a string.
func parseArgs(words []string) ([]any, error) {
	args := make([]any, 0, len(words))
	for _, w := range words {
		arg, err := parseArg(w)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", w, err)
		}
		args = append(args, arg)
	}
	return args, nil
}

func parseArg(w string) (any, error) {
	switch w {
	case "T":
		return true, nil
	case "F":
		return false, nil
	case "N":
		return nil, nil
	}

	tag, value, typed := strings.Cut(w, ":")
	if !typed || len(tag) != 1 {
		return parseUntyped(w), nil
	}

	switch tag {
	case "i":
		i, err := strconv.ParseInt(value, 0, 32)
		return int32(i), err
	case "h":
		i, err := strconv.ParseInt(value, 0, 64)
		return i, err
	case "f":
		f, err := strconv.ParseFloat(value, 32)
		return float32(f), err
	case "d":
		return strconv.ParseFloat(value, 64)
	case "s":
		return value, nil
	case "b":
		return hex.DecodeString(value)
	default:
		return parseUntyped(w), nil
	}
}

func parseUntyped(w string) any {
	if i, err := strconv.ParseInt(w, 10, 32); err == nil {
		return int32(i)
	}
	if f, err := strconv.ParseFloat(w, 32); err == nil {
		return float32(f)
	}
	return w
}
