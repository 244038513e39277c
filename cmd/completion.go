package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// filePredictors completes the flags that name a file.
var filePredictors = map[string]complete.Predictor{
	"config":             predict.Files("*.yaml"),
	"google-credentials": predict.Files("*.json"),
	"types-db":           predict.Files("*.db"),
	"orders-db":          predict.Files("*.db"),
	"metrics-file":       predict.Files("*.prom"),
	"i":                  predict.Files("*.csv"),
	"assets":             predict.Files("*.json"),
}

// Complete answers a shell completion request and exits, when the program
// is invoked by the shell for completion. It returns otherwise.
//
// Run "COMP_INSTALL=1 invctl" to install the completion in the shell.
func Complete(name string) { Completion().Complete(name) }

// Completion returns the completion tree of the application.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, e := range commands {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)
		root.Sub[e.cmd.Name()] = &complete.Command{Flags: flagPredictors(fs)}
	}
	names := predict.Set{}
	for _, e := range commands {
		names = append(names, e.cmd.Name())
	}
	root.Sub["help"] = &complete.Command{Args: names}
	root.Sub["flags"] = &complete.Command{Args: names}
	root.Sub["commands"] = &complete.Command{}
	return root
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := filePredictors[f.Name]; ok {
			m[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = predict.Nothing
			return
		}
		m[f.Name] = predict.Something
	})
	return m
}
