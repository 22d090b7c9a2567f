package config_test

import "github.com/macropower/cleave/pkg/compiler"

func enzymeTable() *compiler.Table {
	return compiler.NewTable(compiler.Entry{Expr: "(K,)", Cleaves: true})
}
