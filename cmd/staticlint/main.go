// Package main собирает multichecker проекта GreenLink.
//
// В состав входят:
//
//  1. Анализаторы из golang.org/x/tools/go/analysis/passes: nilness,
//     shadow, unreachable, printf, assign, atomic, copylocks, structtag,
//     lostcancel.
//  2. Все анализаторы класса SA из staticcheck.io.
//  3. ST1000 (именование пакетов) и S1000 (упрощение условий).
//  4. errcheck: проверка обработки возвращаемых ошибок.
//  5. noexit: запрет прямого вызова os.Exit в функции main пакета main.
//
// Использование:
//
//	go run ./cmd/staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/kisielk/errcheck/errcheck"

	"github.com/ChKSz/GreenLink/cmd/staticlint/noexit"
)

func main() {
	analyzers := []*analysis.Analyzer{
		nilness.Analyzer,
		shadow.Analyzer,
		unreachable.Analyzer,
		printf.Analyzer,
		assign.Analyzer,
		atomic.Analyzer,
		copylock.Analyzer,
		structtag.Analyzer,
		lostcancel.Analyzer,
	}

	for _, analyzer := range staticcheck.Analyzers {
		analyzers = append(analyzers, analyzer.Analyzer)
	}

	for _, analyzer := range stylecheck.Analyzers {
		if analyzer.Analyzer.Name == "ST1000" {
			analyzers = append(analyzers, analyzer.Analyzer)
		}
	}
	for _, analyzer := range simple.Analyzers {
		if analyzer.Analyzer.Name == "S1000" {
			analyzers = append(analyzers, analyzer.Analyzer)
		}
	}

	analyzers = append(analyzers, errcheck.Analyzer, noexit.NoExitAnalyzer)

	multichecker.Main(analyzers...)
}
