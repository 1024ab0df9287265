package cmd

import (
	"flag"

	"github.com/etnz/tcgtracker/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// itemFlags hold item specifications, nothing useful can be predicted.
var itemFlags = map[string]bool{"i": true, "o": true, "in": true, "out": true}

// Completion describes the command line of tcg for shell completion.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"v":      predict.Nothing,
			"raw":    predict.Nothing,
		},
	}
	for _, cmds := range Commands() {
		for _, c := range cmds {
			sub := &complete.Command{Flags: map[string]complete.Predictor{}}
			f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(f)
			f.VisitAll(func(fl *flag.Flag) {
				switch {
				case fl.Name == "f":
					sub.Flags[fl.Name] = predict.Files("*.json")
				case itemFlags[fl.Name]:
					sub.Flags[fl.Name] = predict.Something
				case isBool(fl):
					sub.Flags[fl.Name] = predict.Nothing
				default:
					sub.Flags[fl.Name] = predict.Something
				}
			})
			if c.Name() == "topic" {
				if topics, err := docs.GetAllTopics(); err == nil {
					sub.Args = predict.Set(topics)
				}
			}
			root.Sub[c.Name()] = sub
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// Known reports whether name is a built-in subcommand.
func Known(name string) bool {
	_, ok := Completion().Sub[name]
	return ok
}
