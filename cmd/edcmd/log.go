package main

import (
	"fmt"

	"github.com/jeffwilliams/edcmd/internal/debug"
	"github.com/jeffwilliams/edcmd/internal/expr"
)

const (
	LogCatgExpr     = "Expressions"
	LogCatgBuffer   = "Buffer"
	LogCatgCommands = "Commands"
	LogCatgConfig   = "Config"
	LogCatgApp      = "App"
)

const debugLogSize = 500

var debugLog = debug.New(debugLogSize)

func log(category, message string, args ...interface{}) {
	if *optDebugStdout {
		fmt.Printf(message, args...)
	}
	debugLog.Addf(category, message, args...)
}

func initDebugging() {
	expr.Debug = func(message string, args ...interface{}) {
		log(LogCatgExpr, message+"\n", args...)
	}
}
