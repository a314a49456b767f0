package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pa-spl/spl-go/pkg/log"
	"github.com/pa-spl/spl-go/pkg/register"
)

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return parseCategory(s)
}

func parseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "transaction", "tx":
		return log.CategoryTransaction, nil
	case "lifecycle":
		return log.CategoryLifecycle, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be transaction, lifecycle, or error)", s)
	}
}

// ParseOpFlag parses an operation string from command-line flag (case-insensitive).
func ParseOpFlag(s string) (log.Op, error) {
	return parseOp(s)
}

func parseOp(s string) (log.Op, error) {
	switch strings.ToLower(s) {
	case "read", "r":
		return log.OpRead, nil
	case "write", "w":
		return log.OpWrite, nil
	default:
		return 0, fmt.Errorf("invalid op: %s (must be read or write)", s)
	}
}

// ParseRegisterFlag parses a register given as a number (0x0A, 10) or a
// name (DECIBEL, case-insensitive).
func ParseRegisterFlag(s string) (uint8, error) {
	return parseRegister(s)
}

func parseRegister(s string) (uint8, error) {
	if v, err := strconv.ParseUint(s, 0, 8); err == nil {
		return uint8(v), nil
	}
	upper := strings.ToUpper(s)
	for reg := 0; reg <= 0xFF; reg++ {
		if name := register.Name(uint8(reg)); name != "" && name == upper {
			return uint8(reg), nil
		}
	}
	return 0, fmt.Errorf("invalid register: %s", s)
}

// ParseAddressFlag parses a device address such as 0x48.
func ParseAddressFlag(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", s)
	}
	return uint16(v), nil
}
