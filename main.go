package main

import (
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/galluzlang/galluzc/lexer"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

const manifestName = "Galluz Module Information"

type galluzModule struct {
	Package string `yaml:"Package"`
}

// loadRootModule gathers every ".glz" file in dir into one combined
// top-level scope, the way the teacher's parseDirectory folded every
// ".Tawa Source File" into a single Toplevels list — generalized here to
// go through the normalizer and parser rather than a bespoke lexer loop.
func loadRootModule(dir string) *SourceModule {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		tracerr.PrintSourceColor(err)
		os.Exit(1)
	}

	var forms []Expr
	for _, fi := range fis {
		if !strings.HasSuffix(fi.Name(), ".glz") {
			continue
		}
		path := filepath.Join(dir, fi.Name())
		data, err := ioutil.ReadFile(path)
		if err != nil {
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		}

		normalized := normalize(string(data), fi.Name())
		p := NewParser(lexer.NewLexer(strings.NewReader(normalized), fi.Name()))
		root, err := p.Parse()
		if err != nil {
			tracerr.PrintSourceColor(err)
			os.Exit(1)
		}

		if isForm(root, "scope") {
			forms = append(forms, root.(List).Value[1:]...)
		} else {
			forms = append(forms, root)
		}
	}

	combinedHead := append([]Expr{Sym{Value: "scope"}}, forms...)
	root := &SourceModule{
		Path:    dir,
		Name:    "", // the entry module's own defns bind under their bare names
		Root:    List{Value: combinedHead},
		Exports: map[string]Expr{},
		Nested:  map[string]*SourceModule{},
	}
	scanTopLevel(root, root.Root)
	return root
}

func main() {
	app := &cli.App{
		Name:  "galluzc",
		Usage: "the Galluz compiler",
		ExitErrHandler: func(context *cli.Context, err error) {
			log.Fatalf("galluzc: %s", err)
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "scaffold a module manifest in the current directory",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						fmt.Println("no module name provided")
						os.Exit(1)
					}
					yml := galluzModule{Package: name}

					fi, err := os.Create(manifestName)
					if err != nil {
						fmt.Printf("error creating %s: %s\n", manifestName, err)
						os.Exit(1)
					}
					defer fi.Close()

					out, err := yaml.Marshal(yml)
					if err != nil {
						fmt.Printf("error creating %s: %s\n", manifestName, err)
						os.Exit(1)
					}
					_, err = fi.Write(out)
					if err != nil {
						fmt.Printf("error creating %s: %s\n", manifestName, err)
						os.Exit(1)
					}
					return nil
				},
			},
			{
				Name:  "typeinfo",
				Usage: "dump the function signatures of the module in the current directory",
				Action: func(c *cli.Context) error {
					root := loadRootModule(".")
					modules := NewModuleManager(".")
					printTypeInfo(root, modules)
					return nil
				},
			},
			{
				Name:  "build",
				Usage: "build every .glz file in the current directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output"},
					&cli.BoolFlag{Name: "dump", Value: false},
					&cli.BoolFlag{Name: "library", Value: false},
					&cli.StringSliceFlag{Name: "force-import", Value: cli.NewStringSlice()},
					&cli.BoolFlag{Name: "run", Value: false, Usage: "execute the built binary and mirror its exit code"},
					&cli.BoolFlag{Name: "keep-ir", Value: false, Usage: "keep the generated .ll file instead of discarding it"},
				},
				Action: func(c *cli.Context) error {
					out := c.String("output")

					data, err := ioutil.ReadFile(manifestName)
					if err != nil {
						fmt.Printf("error reading %s: %s\n", manifestName, err)
						os.Exit(1)
					}
					var doc galluzModule
					if err := yaml.Unmarshal(data, &doc); err != nil {
						fmt.Printf("error reading %s: %s\n", manifestName, err)
						os.Exit(1)
					}
					if out == "" {
						out = doc.Package
					}
					if c.Bool("library") {
						out += ".so"
					}

					root := loadRootModule(".")
					modules := NewModuleManager(".")

					module := codegen(root, modules, settings{
						isLibrary:       c.Bool("library"),
						packageName:     doc.Package,
						forceimportlibs: c.StringSlice("force-import"),
						run:             c.Bool("run"),
						keepIR:          c.Bool("keep-ir"),
					}).String()

					if c.Bool("dump") {
						println(module)
						os.Exit(0)
					}

					cmd := exec.Command("clang", "-o", out)
					for _, lib := range c.StringSlice("force-import") {
						cmd.Args = append(cmd.Args, lib)
					}
					if c.Bool("library") {
						cmd.Args = append(cmd.Args, "-shared")
					}

					fi, err := ioutil.TempFile("", "*.ll")
					if err != nil {
						return err
					}
					if !c.Bool("keep-ir") {
						defer os.Remove(fi.Name())
					}
					defer fi.Close()
					if _, err := io.Copy(fi, strings.NewReader(module)); err != nil {
						return err
					}
					cmd.Args = append(cmd.Args, fi.Name())

					cmd.Stdout = os.Stdout
					cmd.Stderr = os.Stderr
					if err := cmd.Run(); err != nil {
						tracerr.PrintSourceColor(err)
						os.Exit(1)
					}

					if c.Bool("keep-ir") {
						fmt.Fprintf(os.Stderr, "kept intermediate representation at %s\n", fi.Name())
					}

					if c.Bool("run") && !c.Bool("library") {
						absOut := out
						if !filepath.IsAbs(absOut) {
							absOut = "./" + out
						}
						run := exec.Command(absOut)
						run.Stdout = os.Stdout
						run.Stderr = os.Stderr
						run.Stdin = os.Stdin
						if err := run.Run(); err != nil {
							if exitErr, ok := err.(*exec.ExitError); ok {
								os.Exit(exitErr.ExitCode())
							}
							tracerr.PrintSourceColor(err)
							os.Exit(1)
						}
					}

					return nil
				},
			},
		},
	}
	app.Run(os.Args)
}
