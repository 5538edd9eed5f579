package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
)

// annotationNoDaemon marks commands that run without a daemon.
const annotationNoDaemon = "battmon/no-daemon"

func noDaemon() map[string]string {
	return map[string]string{annotationNoDaemon: "true"}
}

func parseIntArg(args []string, valueName string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("invalid number of arguments")
	}

	value, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", valueName, err)
	}

	return value, nil
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
