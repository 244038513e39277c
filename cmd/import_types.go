package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type importTypesCmd struct {
	input string
}

func (*importTypesCmd) Name() string     { return "import-types" }
func (*importTypesCmd) Synopsis() string { return "load the type catalog from a CSV file" }
func (*importTypesCmd) Usage() string {
	return `invctl import-types -i <type_info.csv>

  Replaces the type catalog database with the content of a CSV file.
  The file has a header row then "type_id,group_id,category_id,name" rows.
`
}

func (c *importTypesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.input, "i", "type_info.csv", "CSV file to import")
}

func (c *importTypesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	logger := newLogger()
	defer logger.Sync()

	in, err := os.Open(c.input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", c.input, err)
		return subcommands.ExitUsageError
	}
	defer in.Close()

	db, err := OpenTypes(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening type catalog: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	n, err := db.ImportCSV(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", c.input, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully imported %d types into %s\n", n, *typesDB)
	return subcommands.ExitSuccess
}
