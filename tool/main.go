package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

const tokenPkg = "github.com/galluzlang/galluzc/token"

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

type TCase struct {
	Name string `@Ident "of"`
	Kind string `(@Ident | @String | @RawString)`
}

type Declaration struct {
	Name string   `"type" @Ident "="`
	Many *[]TCase `("|" (@@))*`
	I    struct{} `";"`
}

// GenerateDecls renders a sum type declaration: an interface with a private
// marker method, one struct per case holding a typed Value and a source
// Span, and the marker + Span methods for each.
func GenerateDecls(pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)

	for _, decl := range t.Declarations {
		if decl.Many == nil {
			continue
		}

		f.Type().Id(decl.Name).Interface(
			Id("is"+decl.Name).Params(),
			Id("Span").Params().Qual(tokenPkg, "Span"),
		)

		for _, it := range *decl.Many {
			kind := it.Kind
			if kind[0] == '"' {
				kind = kind[1 : len(kind)-1]
			}

			f.Type().Id(it.Name).Struct(
				Id("Value").Id(kind),
				Id("Pos").Qual(tokenPkg, "Span"),
			)
			f.Func().Params(Id("v").Id(it.Name)).Id("is" + decl.Name).Params().Block()
			f.Func().Params(Id("v").Id(it.Name)).Id("Span").Params().Qual(tokenPkg, "Span").Block(
				Return(Id("v").Dot("Pos")),
			)
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&TypeDecls{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	ast := TypeDecls{}
	err = parser.ParseBytes(inData, &ast)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(pkgname, &ast)), os.ModePerm)
	if err != nil {
		panic(err)
	}
}
