package main

//go:generate go run ./tool tool/ast.adt ast.go main
